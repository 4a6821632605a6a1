package format

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/dhamidi/robusta/classfile"
)

// cborEncMode uses canonical options for deterministic encoding.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("format: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

type CBOREncoder struct {
	w io.Writer
}

func NewCBOREncoder(w io.Writer) *CBOREncoder {
	return &CBOREncoder{w: w}
}

func (e *CBOREncoder) Encode(cf *classfile.ClassFile) error {
	data, err := buildClassData(cf)
	if err != nil {
		return err
	}
	encoded, err := cborEncMode.Marshal(data)
	if err != nil {
		return fmt.Errorf("format: marshal class data: %w", err)
	}
	_, err = e.w.Write(encoded)
	return err
}
