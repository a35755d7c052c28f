package codec

import (
	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// decodeCUE evaluates a CUE file and decodes its concrete value.
// Non-concrete fields (constraints without a value) fail the decode.
func decodeCUE(name string, data []byte) (any, error) {
	ctx := cuecontext.New()

	value := ctx.CompileBytes(data, cue.Filename(name))
	if value.Err() != nil {
		return nil, value.Err()
	}
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, err
	}

	var v any
	if err := value.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
