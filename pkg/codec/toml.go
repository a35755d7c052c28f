package codec

import "github.com/pelletier/go-toml/v2"

func decodeTOML(_ string, data []byte) (any, error) {
	var v map[string]any
	if err := toml.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}
