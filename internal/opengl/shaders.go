package opengl

// Attribute locations shared by every program: 0 position, 1 normal, 2 uv.

const basicVertSrc = `
#version 410 core
layout(location = 0) in vec3 aPosition;
layout(location = 2) in vec2 aUV;

uniform mat4 mvp;
uniform vec2 uvRepeat;

out vec2 vUV;

void main() {
    vUV = aUV * uvRepeat;
    gl_Position = mvp * vec4(aPosition, 1.0);
}
` + "\x00"

const basicFragSrc = `
#version 410 core
in vec2 vUV;
out vec4 outColor;

uniform vec4 color;
uniform bool hasMap;
uniform sampler2D map;

void main() {
    vec4 c = color;
    if (hasMap) {
        c *= texture(map, vUV);
    }
    outColor = c;
}
` + "\x00"

// The skybox samples its cube along the untransformed vertex position,
// which for a box centred on its origin is the direction from the centre.
const skyVertSrc = `
#version 410 core
layout(location = 0) in vec3 aPosition;

uniform mat4 mvp;

out vec3 vDir;

void main() {
    vDir = aPosition;
    gl_Position = mvp * vec4(aPosition, 1.0);
}
` + "\x00"

const skyFragSrc = `
#version 410 core
in vec3 vDir;
out vec4 outColor;

uniform samplerCube tCube;

void main() {
    outColor = texture(tCube, vDir);
}
` + "\x00"
