package fresnel

// Uniform names shared by the GLSL sources and the CPU shading function.
const (
	UniformRefractionRatio = "refractionRatio"
	UniformBias            = "fresnelBias"
	UniformPower           = "fresnelPower"
	UniformScale           = "fresnelScale"
	UniformDispersion      = "dispersion"
	UniformEnvironment     = "tCube"
)

// VertexSource moves the vertex into world space and hands the fragment
// stage the view vector and world normal. modelMatrix, mvp and
// cameraPosition are supplied by the renderer for every draw.
const VertexSource = `#version 410 core
layout(location = 0) in vec3 aPosition;
layout(location = 1) in vec3 aNormal;

uniform mat4 modelMatrix;
uniform mat4 mvp;
uniform vec3 cameraPosition;

out vec3 vIncident;
out vec3 vNormal;

void main() {
    vec4 worldPosition = modelMatrix * vec4(aPosition, 1.0);
    vIncident = worldPosition.xyz - cameraPosition;
    vNormal = normalize(mat3(modelMatrix) * aNormal);
    gl_Position = mvp * vec4(aPosition, 1.0);
}
` + "\x00"

// FragmentSource blends the environment seen along the refracted and
// reflected rays by the Fresnel mix factor.
const FragmentSource = `#version 410 core
in vec3 vIncident;
in vec3 vNormal;

uniform samplerCube tCube;
uniform float refractionRatio;
uniform float fresnelBias;
uniform float fresnelScale;
uniform float fresnelPower;
uniform float dispersion;

out vec4 FragColor;

void main() {
    vec3 I = normalize(vIncident);
    vec3 N = normalize(vNormal);

    vec3 reflected = reflect(vIncident, N);
    vec3 refractR = refract(I, N, refractionRatio);
    vec3 refractG = refract(I, N, refractionRatio * (1.0 - dispersion));
    vec3 refractB = refract(I, N, refractionRatio * (1.0 - 2.0 * dispersion));

    float cosTheta = clamp(dot(I, N), -1.0, 1.0);
    float mixFactor = clamp(fresnelBias + fresnelScale * pow(1.0 + cosTheta, fresnelPower), 0.0, 1.0);

    vec4 reflectedColor = texture(tCube, reflected);
    vec4 refractedColor = vec4(1.0);
    refractedColor.r = texture(tCube, refractR).r;
    refractedColor.g = texture(tCube, refractG).g;
    refractedColor.b = texture(tCube, refractB).b;

    FragColor = mix(refractedColor, reflectedColor, mixFactor);
}
` + "\x00"
