package types

import (
	"strconv"

	"github.com/mna/lilypad/lang/hashing"
)

// Bytes is the type of binary data. A Bytes encapsulates an immutable sequence
// of bytes. It is indexable, each element being a single-byte Bytes value.
type Bytes string

// BytesTypeID is the type identity token of Bytes.
var BytesTypeID = hashing.NewTypeID("bytes")

var _ Indexable = Bytes("")

func (b Bytes) String() string         { return "b" + strconv.Quote(string(b)) }
func (b Bytes) Type() string           { return "bytes" }
func (b Bytes) TypeID() hashing.TypeID { return BytesTypeID }
func (b Bytes) Len() int               { return len(b) }
func (b Bytes) Index(i int) Value      { return b[i : i+1] }
