package compute

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.3-core/gl"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/force"
)

// OpenGLBackend keeps the particle state resident on the GPU in two SSBOs
// and ping-pongs the bind points each step, the same double-buffer scheme
// the CPU path uses in host memory. Requires a current GL 4.3 context;
// the gui window provides one.
type OpenGLBackend struct {
	Program      uint32
	SSBOIn       uint32
	SSBOOut      uint32
	NumParticles int32
	Initialized  bool

	scratch []float32
}

func NewOpenGLBackend(numParticles int) *OpenGLBackend {
	return &OpenGLBackend{NumParticles: int32(numParticles)}
}

func (c *OpenGLBackend) Name() string    { return "opengl" }
func (c *OpenGLBackend) Available() bool { return c.Initialized }

// Init compiles the embedded kernel and uploads the initial particle state.
func (c *OpenGLBackend) Init(initial []body.Particle) error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("failed to init opengl: %v", err)
	}

	program, err := createComputeProgram(naiveComputeSrc)
	if err != nil {
		return err
	}
	c.Program = program

	c.scratch = Flatten(initial, c.scratch)
	size := len(c.scratch) * 4

	gl.GenBuffers(1, &c.SSBOIn)
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, c.SSBOIn)
	gl.BufferData(gl.SHADER_STORAGE_BUFFER, size, gl.Ptr(c.scratch), gl.DYNAMIC_DRAW)
	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, 0, c.SSBOIn)

	gl.GenBuffers(1, &c.SSBOOut)
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, c.SSBOOut)
	gl.BufferData(gl.SHADER_STORAGE_BUFFER, size, nil, gl.DYNAMIC_DRAW)
	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, 1, c.SSBOOut)

	c.Initialized = true
	return nil
}

// StepGPU dispatches one kernel step on the resident buffers and swaps the
// bind points. The barrier is the device-side equivalent of the host-side
// dispatch join: no buffer is read until every invocation finished.
func (c *OpenGLBackend) StepGPU(p force.SimParams) {
	if !c.Initialized {
		return
	}

	gl.UseProgram(c.Program)

	gl.Uniform1i(gl.GetUniformLocation(c.Program, gl.Str("numParticles\x00")), int32(p.N))
	gl.Uniform1f(gl.GetUniformLocation(c.Program, gl.Str("g\x00")), p.G)
	gl.Uniform1f(gl.GetUniformLocation(c.Program, gl.Str("e\x00")), p.E)
	gl.Uniform1f(gl.GetUniformLocation(c.Program, gl.Str("dt\x00")), p.Dt)

	numGroups := (c.NumParticles + 63) / 64
	gl.DispatchCompute(uint32(numGroups), 1, 1)
	gl.MemoryBarrier(gl.SHADER_STORAGE_BARRIER_BIT)

	c.SSBOIn, c.SSBOOut = c.SSBOOut, c.SSBOIn
	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, 0, c.SSBOIn)
	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, 1, c.SSBOOut)
}

// Download reads the authoritative (post-swap source) buffer back into dst.
func (c *OpenGLBackend) Download(dst []body.Particle) {
	if !c.Initialized {
		return
	}
	c.scratch = c.scratch[:len(dst)*ParticleStride]
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, c.SSBOIn)
	gl.GetBufferSubData(gl.SHADER_STORAGE_BUFFER, 0, len(c.scratch)*4, gl.Ptr(c.scratch))
	Unflatten(c.scratch, dst)
}

func (c *OpenGLBackend) Cleanup() {
	if !c.Initialized {
		return
	}
	gl.DeleteBuffers(1, &c.SSBOIn)
	gl.DeleteBuffers(1, &c.SSBOOut)
	gl.DeleteProgram(c.Program)
	c.Initialized = false
}

func createComputeProgram(source string) (uint32, error) {
	content := source + "\x00"

	shader := gl.CreateShader(gl.COMPUTE_SHADER)
	csources, free := gl.Strs(content)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		return 0, fmt.Errorf("failed to compile compute shader: %v", log)
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, shader)
	gl.LinkProgram(program)

	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		return 0, fmt.Errorf("failed to link program")
	}

	gl.DeleteShader(shader)
	return program, nil
}
