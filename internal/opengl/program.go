package opengl

import (
	"fmt"
	"strings"

	gl "github.com/go-gl/gl/v4.1-core/gl"
)

// Shader stages reported by CompileError.
const (
	StageVertex   = "vertex"
	StageFragment = "fragment"
	StageLink     = "link"
)

// CompileError is returned when a program fails to compile or link. Log is
// the driver's info log.
type CompileError struct {
	Program string
	Stage   string
	Log     string
}

func (e *CompileError) Error() string {
	verb := "compile failed"
	if e.Stage == StageLink {
		verb = "link failed"
	}
	return fmt.Sprintf("%s shader: %s: %s: %s", e.Program, e.Stage, verb, e.Log)
}

// program is a linked GL program with a uniform location cache.
type program struct {
	id   uint32
	name string
	locs map[string]int32
}

func (p *program) loc(name string) int32 {
	if l, ok := p.locs[name]; ok {
		return l
	}
	l := gl.GetUniformLocation(p.id, gl.Str(name+"\x00"))
	p.locs[name] = l
	return l
}

func (p *program) destroy() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}

func newProgram(name, vertSrc, fragSrc string) (*program, error) {
	vert, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return nil, &CompileError{Program: name, Stage: StageVertex, Log: err.Error()}
	}
	frag, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vert)
		return nil, &CompileError{Program: name, Stage: StageFragment, Log: err.Error()}
	}

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)
	gl.DeleteShader(vert)
	gl.DeleteShader(frag)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return nil, &CompileError{Program: name, Stage: StageLink, Log: trimLog(log)}
	}

	return &program{id: prog, name: name, locs: make(map[string]int32)}, nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(terminated(src))
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s", trimLog(log))
	}
	return shader, nil
}

// terminated appends the NUL gl.Strs expects when src lacks one.
func terminated(src string) string {
	if strings.HasSuffix(src, "\x00") {
		return src
	}
	return src + "\x00"
}

func trimLog(log string) string {
	return strings.TrimSpace(strings.TrimRight(log, "\x00"))
}
