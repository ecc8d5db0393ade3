package fuzz

import (
	"encoding/gob"
	"os"
)

// Checkpoint persists fuzzing progress so a long campaign can be
// stopped and resumed without losing the best-found stream.
type Checkpoint struct {
	Best     []uint8
	BestCost int
	Steps    int64
}

// SaveCheckpoint writes ckpt to path.
func SaveCheckpoint(path string, ckpt Checkpoint) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewEncoder(f).Encode(ckpt)
}

// LoadCheckpoint reads a Checkpoint previously written by SaveCheckpoint.
func LoadCheckpoint(path string) (Checkpoint, error) {
	var ckpt Checkpoint
	f, err := os.Open(path)
	if err != nil {
		return ckpt, err
	}
	defer f.Close()
	err = gob.NewDecoder(f).Decode(&ckpt)
	return ckpt, err
}
