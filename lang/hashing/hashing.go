package hashing

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Signature is a 64-bit key identifying a function or variable. Tables keyed
// by signatures only accept this type, which prevents storing arbitrary
// integers or re-hashed values in them.
type Signature uint64

// TypeID is the identity token of a concrete value type. It is computed once
// per type (see NewTypeID) and used to distinguish overloads that share the
// same name and arity.
type TypeID uint64

// NewTypeID returns the type identity token for the type with the provided
// name. It is meant to be called once per type, typically when initializing
// a package-level variable.
func NewTypeID(name string) TypeID {
	var d xxhash.Digest
	d.Reset()
	writeString(&d, "type")
	writeString(&d, name)
	return TypeID(d.Sum64())
}

// QualifiedVarHash returns the signature of the variable name accessed via
// the namespace path modules.
//
// The first module of the path is always skipped, hashing starts from the
// second one. The number of modules hashed is part of the signature.
func QualifiedVarHash(modules []string, name string) Signature {
	var d xxhash.Digest
	d.Reset()
	writePath(&d, modules)
	writeString(&d, name)
	return Signature(d.Sum64())
}

// QualifiedFnHash returns the signature of the function name taking arity
// parameters, accessed via the namespace path modules. It does not include
// the parameter types, so all overloads of the same name and arity share it.
//
// The first module of the path is always skipped, hashing starts from the
// second one. The number of modules hashed is part of the signature.
func QualifiedFnHash(modules []string, name string, arity int) Signature {
	var d xxhash.Digest
	d.Reset()
	writePath(&d, modules)
	writeString(&d, name)
	writeUint(&d, uint64(arity))
	return Signature(d.Sum64())
}

// FnHash returns the signature of the non-qualified function name taking
// arity parameters.
func FnHash(name string, arity int) Signature {
	return QualifiedFnHash(nil, name, arity)
}

// FnParamsHash returns the signature of the ordered list of parameter types.
func FnParamsHash(params []TypeID) Signature {
	var d xxhash.Digest
	d.Reset()
	for _, p := range params {
		writeUint(&d, uint64(p))
	}
	writeUint(&d, uint64(len(params)))
	return Signature(d.Sum64())
}

// Combine combines two signatures by taking their XOR. It is commutative,
// associative and Combine(a, a) == 0.
func Combine(a, b Signature) Signature {
	return a ^ b
}

func writePath(d *xxhash.Digest, modules []string) {
	var n int
	if len(modules) > 1 {
		for _, m := range modules[1:] {
			writeString(d, m)
			n++
		}
	}
	writeUint(d, uint64(n))
}

// strings are terminated by a byte that cannot appear in valid UTF-8, so that
// ("ab", "c") and ("a", "bc") hash differently.
func writeString(d *xxhash.Digest, s string) {
	_, _ = d.WriteString(s)
	_, _ = d.Write([]byte{0xff})
}

func writeUint(d *xxhash.Digest, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	_, _ = d.Write(b[:])
}
