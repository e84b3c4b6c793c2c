package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateMedia(t *testing.T) {
	tests := []struct {
		name    string
		media   []MediaFile
		wantErr bool
	}{
		{name: "nil is empty", media: nil},
		{name: "empty", media: []MediaFile{}},
		{name: "one", media: mediaFiles("a.jpg")},
		{name: "three", media: mediaFiles("a.jpg", "b.jpg", "c.mp4")},
		{name: "four", media: mediaFiles("a.jpg", "b.jpg", "c.jpg", "d.jpg"), wantErr: true},
		{name: "ten", media: make([]MediaFile, 10), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMedia(tt.media)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrMediaLimitExceeded))
				return
			}
			assert.NoError(t, err)
		})
	}
}
