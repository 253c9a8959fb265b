package models

// Record is the single document shape held in the bugdemo index.
// The index maps Key as a long and Value as text.
type Record struct {
	Key   int64  `json:"key"`
	Value string `json:"value"`
}
