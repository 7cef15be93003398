// Package vm implements the RV32I architectural state and execution
// semantics: registers, memory, the decoder-driven executor, the
// environment-call ABI, and the fetch-decode-execute run loop.
package vm

import (
	"fmt"
	"io"
	"os"

	"github.com/Jorgecmartins/riscv-emulator/isa"
)

// Address map, fixed by the bootstrap contract.
const (
	FlashBase    uint32 = 0x00040000
	MaxImageSize uint32 = 16384

	StackTop  uint32 = 0xFFFFFFF0
	StackSize uint32 = 16384
	StackBase uint32 = StackTop - StackSize
)

// StepResult reports the outcome of executing one instruction.
type StepResult struct {
	// Exited is true if the Exit syscall terminated the program.
	Exited bool
	// ExitCode is meaningful only when Exited is true.
	ExitCode int32
	// Err is set on any fatal condition (decode, bus, syscall error).
	Err error
}

// VM is the RV32I interpreter: architectural state plus the execution
// units that act on it.
type VM struct {
	regs *RegFile
	bus  *Bus

	flash *Memory
	stack *Memory

	decoder *isa.Decoder
	alu     *ALU
	branch  *BranchUnit
	lsu     *LoadStoreUnit
	syscall SyscallHandler

	fetchCache *FetchCache
	trace      func(pc uint32, inst isa.Instruction)

	stdin  io.Reader
	stdout io.Writer

	instructionCount uint64
	maxInstructions  uint64
}

// Option configures a VM at construction time.
type Option func(*VM)

// WithStdin sets the reader the ReadInput syscall consumes from. Defaults
// to os.Stdin.
func WithStdin(r io.Reader) Option {
	return func(v *VM) { v.stdin = r }
}

// WithStdout sets the writer the Puts syscall writes to. Defaults to
// os.Stdout.
func WithStdout(w io.Writer) Option {
	return func(v *VM) { v.stdout = w }
}

// WithTrace installs a callback invoked with the PC and decoded instruction
// before each step executes — the hook the auxiliary trace output is built
// from. A nil trace (the default) disables tracing.
func WithTrace(fn func(pc uint32, inst isa.Instruction)) Option {
	return func(v *VM) { v.trace = fn }
}

// WithFetchCache attaches a FetchCache that observes every fetch for
// telemetry purposes. A nil cache (the default) disables tracking.
func WithFetchCache(c *FetchCache) Option {
	return func(v *VM) { v.fetchCache = c }
}

// WithSyscallHandler overrides the default syscall handler.
func WithSyscallHandler(h SyscallHandler) Option {
	return func(v *VM) { v.syscall = h }
}

// WithMaxInstructions bounds how many instructions Run will execute before
// giving up with an error. 0 (the default) means no limit.
func WithMaxInstructions(max uint64) Option {
	return func(v *VM) { v.maxInstructions = max }
}

// New builds a VM from a flash image: validates its size, installs it at
// the fixed flash base, allocates the stack region, and bootstraps PC and
// the stack pointer from the reset vector.
func New(image []byte, opts ...Option) (*VM, error) {
	if len(image) == 0 {
		return nil, &ConfigError{Reason: "image is too short to contain a reset vector"}
	}
	if uint32(len(image)) >= MaxImageSize {
		return nil, &ConfigError{Reason: fmt.Sprintf("image size %d is not below %d bytes", len(image), MaxImageSize)}
	}

	flashData := make([]byte, len(image))
	copy(flashData, image)
	flash := NewMemory(FlashBase, flashData)
	stack := NewMemory(StackBase, make([]byte, StackSize))
	bus := NewBus(flash, stack)
	regs := &RegFile{}

	v := &VM{
		regs:    regs,
		bus:     bus,
		flash:   flash,
		stack:   stack,
		decoder: isa.NewDecoder(),
		alu:     NewALU(regs),
		branch:  NewBranchUnit(regs),
		lsu:     NewLoadStoreUnit(regs, bus),
		stdin:   os.Stdin,
		stdout:  os.Stdout,
	}

	for _, opt := range opts {
		opt(v)
	}

	if v.syscall == nil {
		v.syscall = NewDefaultSyscallHandler(regs, bus, v.stdin, v.stdout)
	}

	resetVector, err := bus.Read32(FlashBase)
	if err != nil {
		return nil, &ConfigError{Reason: "image is too short to contain a reset vector"}
	}
	regs.SetPC(resetVector)
	regs.WriteReg(2, StackTop)

	return v, nil
}

// RegFile returns the VM's register file.
func (v *VM) RegFile() *RegFile {
	return v.regs
}

// Bus returns the VM's memory bus.
func (v *VM) Bus() *Bus {
	return v.bus
}

// InstructionCount returns the number of instructions executed so far.
func (v *VM) InstructionCount() uint64 {
	return v.instructionCount
}

// FetchCacheStats returns the attached FetchCache's counters, or the zero
// value if no cache was attached.
func (v *VM) FetchCacheStats() FetchCacheStats {
	if v.fetchCache == nil {
		return FetchCacheStats{}
	}
	return v.fetchCache.Stats()
}

// Step fetches, decodes and executes one instruction.
func (v *VM) Step() StepResult {
	if v.maxInstructions > 0 && v.instructionCount >= v.maxInstructions {
		return StepResult{Err: fmt.Errorf("max instructions reached")}
	}

	pc := v.regs.PC()

	if v.fetchCache != nil {
		v.fetchCache.Observe(pc)
	}

	word, err := v.bus.Fetch(pc)
	if err != nil {
		return StepResult{Err: err}
	}

	inst := v.decoder.Decode(word)
	if inst.Format == isa.FormatUnknown {
		return StepResult{Err: &DecodeError{PC: pc, Word: word}}
	}

	if v.trace != nil {
		v.trace(pc, inst)
	}

	result := v.execute(inst)
	v.instructionCount++
	return result
}

// Run executes instructions until Exit or a fatal error, returning the
// guest's exit code (or -1 on a fatal error).
func (v *VM) Run() int32 {
	for {
		result := v.Step()
		if result.Err != nil {
			return -1
		}
		if result.Exited {
			return result.ExitCode
		}
	}
}

func (v *VM) execute(inst isa.Instruction) StepResult {
	if inst.Format == isa.FormatECALL {
		return v.executeECALL()
	}

	var err error
	pcChanged := false

	switch inst.Format {
	case isa.FormatR:
		err = v.executeR(inst)
	case isa.FormatI:
		pcChanged, err = v.executeI(inst)
	case isa.FormatS:
		err = v.executeS(inst)
	case isa.FormatB:
		pcChanged, err = v.executeB(inst)
	case isa.FormatU:
		v.executeU(inst)
	case isa.FormatJ:
		v.branch.Jal(inst.Rd, inst.Imm)
		pcChanged = true
	default:
		err = &DecodeError{PC: v.regs.PC()}
	}

	if err != nil {
		return StepResult{Err: err}
	}
	if !pcChanged {
		v.regs.SetPC(v.regs.PC() + 4)
	}
	return StepResult{}
}

func (v *VM) executeR(inst isa.Instruction) error {
	switch inst.Op {
	case isa.OpAdd:
		v.alu.Add(inst.Rd, inst.Rs1, inst.Rs2)
	case isa.OpSub:
		v.alu.Sub(inst.Rd, inst.Rs1, inst.Rs2)
	case isa.OpSll:
		v.alu.Sll(inst.Rd, inst.Rs1, inst.Rs2)
	case isa.OpSlt:
		v.alu.Slt(inst.Rd, inst.Rs1, inst.Rs2)
	case isa.OpSltu:
		v.alu.Sltu(inst.Rd, inst.Rs1, inst.Rs2)
	case isa.OpXor:
		v.alu.Xor(inst.Rd, inst.Rs1, inst.Rs2)
	case isa.OpSrl:
		v.alu.Srl(inst.Rd, inst.Rs1, inst.Rs2)
	case isa.OpSra:
		v.alu.Sra(inst.Rd, inst.Rs1, inst.Rs2)
	case isa.OpOr:
		v.alu.Or(inst.Rd, inst.Rs1, inst.Rs2)
	case isa.OpAnd:
		v.alu.And(inst.Rd, inst.Rs1, inst.Rs2)
	case isa.OpSlli:
		v.alu.Slli(inst.Rd, inst.Rs1, inst.Shamt)
	case isa.OpSrli:
		v.alu.Srli(inst.Rd, inst.Rs1, inst.Shamt)
	case isa.OpSrai:
		v.alu.Srai(inst.Rd, inst.Rs1, inst.Shamt)
	default:
		return &DecodeError{PC: v.regs.PC()}
	}
	return nil
}

// executeI handles both arith-immediate/load instructions (which never
// move PC themselves) and Jalr (which always does); the bool return lets
// execute know whether to apply the implicit PC+4 advance.
func (v *VM) executeI(inst isa.Instruction) (pcChanged bool, err error) {
	switch inst.Op {
	case isa.OpAddi:
		v.alu.Addi(inst.Rd, inst.Rs1, inst.Imm)
	case isa.OpSlti:
		v.alu.Slti(inst.Rd, inst.Rs1, inst.Imm)
	case isa.OpSltiu:
		v.alu.Sltiu(inst.Rd, inst.Rs1, inst.Imm)
	case isa.OpXori:
		v.alu.Xori(inst.Rd, inst.Rs1, inst.Imm)
	case isa.OpOri:
		v.alu.Ori(inst.Rd, inst.Rs1, inst.Imm)
	case isa.OpAndi:
		v.alu.Andi(inst.Rd, inst.Rs1, inst.Imm)
	case isa.OpLb:
		err = v.lsu.Lb(inst.Rd, inst.Rs1, inst.Imm)
	case isa.OpLh:
		err = v.lsu.Lh(inst.Rd, inst.Rs1, inst.Imm)
	case isa.OpLw:
		err = v.lsu.Lw(inst.Rd, inst.Rs1, inst.Imm)
	case isa.OpLbu:
		err = v.lsu.Lbu(inst.Rd, inst.Rs1, inst.Imm)
	case isa.OpLhu:
		err = v.lsu.Lhu(inst.Rd, inst.Rs1, inst.Imm)
	case isa.OpJalr:
		v.branch.Jalr(inst.Rd, inst.Rs1, inst.Imm)
		pcChanged = true
	default:
		err = &DecodeError{PC: v.regs.PC()}
	}
	return pcChanged, err
}

func (v *VM) executeS(inst isa.Instruction) error {
	switch inst.Op {
	case isa.OpSb:
		return v.lsu.Sb(inst.Rs1, inst.Rs2, inst.Imm)
	case isa.OpSh:
		return v.lsu.Sh(inst.Rs1, inst.Rs2, inst.Imm)
	case isa.OpSw:
		return v.lsu.Sw(inst.Rs1, inst.Rs2, inst.Imm)
	default:
		return &DecodeError{PC: v.regs.PC()}
	}
}

func (v *VM) executeB(inst isa.Instruction) (bool, error) {
	switch inst.Op {
	case isa.OpBeq:
		return v.branch.Beq(inst.Rs1, inst.Rs2, inst.Imm), nil
	case isa.OpBne:
		return v.branch.Bne(inst.Rs1, inst.Rs2, inst.Imm), nil
	case isa.OpBlt:
		return v.branch.Blt(inst.Rs1, inst.Rs2, inst.Imm), nil
	case isa.OpBge:
		return v.branch.Bge(inst.Rs1, inst.Rs2, inst.Imm), nil
	case isa.OpBltu:
		return v.branch.Bltu(inst.Rs1, inst.Rs2, inst.Imm), nil
	case isa.OpBgeu:
		return v.branch.Bgeu(inst.Rs1, inst.Rs2, inst.Imm), nil
	default:
		return false, &DecodeError{PC: v.regs.PC()}
	}
}

func (v *VM) executeU(inst isa.Instruction) {
	switch inst.Op {
	case isa.OpLui:
		v.alu.Lui(inst.Rd, inst.Imm)
	case isa.OpAuipc:
		v.alu.Auipc(inst.Rd, v.regs.PC(), inst.Imm)
	}
}

func (v *VM) executeECALL() StepResult {
	result, err := v.syscall.Handle()
	if err != nil {
		return StepResult{Err: err}
	}
	if result.Exited {
		return StepResult{Exited: true, ExitCode: result.ExitCode}
	}
	v.regs.SetPC(v.regs.PC() + 4)
	return StepResult{}
}
