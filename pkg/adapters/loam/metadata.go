package loam

// DocumentHeader is the part of a vault document needed to list modules.
type DocumentHeader struct {
	ID string `json:"id" mapstructure:"id"`
}
