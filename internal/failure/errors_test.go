package failure

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Class
	}{
		{"nil", nil, ClassNone},
		{"not found", fmt.Errorf("%w: a/b.pnts", ErrNotFound), ClassIoNotFound},
		{"magic", fmt.Errorf("%w: got \"b3dm\"", ErrInvalidMagic), ClassInvalidMagic},
		{"unknown encoding", ErrUnknownPointEncoding, ClassUnknownPointEncoding},
		{"unsupported encoding", ErrUnsupportedEncoding, ClassUnsupportedEncoding},
		{"json", fmt.Errorf("%w: unexpected EOF", ErrMalformedJSON), ClassMalformedJSON},
		{"bounds", fmt.Errorf("read 4 bytes: %w", ErrOutOfBounds), ClassOutOfBounds},
		{"canceled", context.Canceled, ClassCanceled},
		{"other", errors.New("boom"), ClassOther},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.err))
		})
	}
}

func TestItemError_Unwrap(t *testing.T) {
	err := NewItemError("tiles/0/content.pnts", "payload", fmt.Errorf("%w: tiles/0/content.pnts", ErrNotFound))

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, ClassIoNotFound, err.Class())
	assert.Contains(t, err.Error(), "payload tiles/0/content.pnts")
}

func TestLog_ConcurrentRecord(t *testing.T) {
	log := NewLog()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := ErrInvalidMagic
			if i%2 == 0 {
				err = ErrNotFound
			}
			log.Record(NewItemError(fmt.Sprintf("f%d", i), "payload", err))
		}(i)
	}
	wg.Wait()

	require.Equal(t, 50, log.Len())
	assert.Equal(t, 25, log.Count(ClassIoNotFound))
	assert.Equal(t, 25, log.Count(ClassInvalidMagic))
	assert.Len(t, log.Errors(), 50)
}

func TestLog_RecordNil(t *testing.T) {
	log := NewLog()
	log.Record(nil)
	assert.Equal(t, 0, log.Len())
}
