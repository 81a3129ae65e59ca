// Package record defines the fixed-size value that travels through the log
// ring from the producer to the background writer.
package record

import (
	"math"
	"strconv"
)

// Kind identifies which value a Record carries.
type Kind uint8

const (
	Char Kind = iota
	Int32
	Int
	Int64
	Uint32
	Uint
	Uint64
	Float32
	Float64
)

// String returns the name of a Kind.
func (k Kind) String() string {
	switch k {
	case Char:
		return "char"
	case Int32:
		return "int32"
	case Int:
		return "int"
	case Int64:
		return "int64"
	case Uint32:
		return "uint32"
	case Uint:
		return "uint"
	case Uint64:
		return "uint64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Record is a tagged value: one Kind and the 64-bit payload for it. Records
// are only built through the constructors below, so every Record carries a
// valid Kind. The zero Record is the character NUL.
type Record struct {
	kind Kind
	bits uint64
}

func NewChar(v byte) Record       { return Record{kind: Char, bits: uint64(v)} }
func NewInt32(v int32) Record     { return Record{kind: Int32, bits: uint64(int64(v))} }
func NewInt(v int) Record         { return Record{kind: Int, bits: uint64(int64(v))} }
func NewInt64(v int64) Record     { return Record{kind: Int64, bits: uint64(v)} }
func NewUint32(v uint32) Record   { return Record{kind: Uint32, bits: uint64(v)} }
func NewUint(v uint) Record       { return Record{kind: Uint, bits: uint64(v)} }
func NewUint64(v uint64) Record   { return Record{kind: Uint64, bits: v} }
func NewFloat32(v float32) Record { return Record{kind: Float32, bits: uint64(math.Float32bits(v))} }
func NewFloat64(v float64) Record { return Record{kind: Float64, bits: math.Float64bits(v)} }

// Kind returns the value kind.
func (r Record) Kind() Kind { return r.kind }

// Char returns the payload as a byte. Only meaningful for Char records.
func (r Record) Char() byte { return byte(r.bits) }

// Int64 returns the payload of a signed integer record.
func (r Record) Int64() int64 { return int64(r.bits) }

// Uint64 returns the payload of an unsigned integer record.
func (r Record) Uint64() uint64 { return r.bits }

// Float64 returns the payload of a float record, widened to float64.
func (r Record) Float64() float64 {
	if r.kind == Float32 {
		return float64(math.Float32frombits(uint32(r.bits)))
	}
	return math.Float64frombits(r.bits)
}

// AppendTo appends the textual form of r to dst. Floats use the shortest
// representation that round-trips at their own precision.
func (r Record) AppendTo(dst []byte) []byte {
	switch r.kind {
	case Char:
		return append(dst, byte(r.bits))
	case Int32, Int, Int64:
		return strconv.AppendInt(dst, int64(r.bits), 10)
	case Uint32, Uint, Uint64:
		return strconv.AppendUint(dst, r.bits, 10)
	case Float32:
		return strconv.AppendFloat(dst, float64(math.Float32frombits(uint32(r.bits))), 'g', -1, 32)
	default: // Float64
		return strconv.AppendFloat(dst, math.Float64frombits(r.bits), 'g', -1, 64)
	}
}

// String returns the textual form of r.
func (r Record) String() string {
	return string(r.AppendTo(nil))
}
