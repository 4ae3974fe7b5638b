package model

// Instruction is one disassembled CPU trace line ("BB:AAAA: text").
type Instruction struct {
	LineNo    int
	Bank      string
	Addr      string
	Text      string
	IWMAccess bool // operand touches $C0Ex, $C031 or DISKREG
	DataRead  bool // non-store access to $C0EC
}

// Location returns the bank-qualified address.
func (i Instruction) Location() string {
	return i.Bank + ":" + i.Addr
}
