package chunking

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

var loaderOnce sync.Once

// TokenCounter returns a LengthFunc counting tokens of the named tiktoken encoding.
// Encoding tables are embedded in the binary, so no network access is needed.
func TokenCounter(encoding string) (LengthFunc, error) {
	loaderOnce.Do(func() {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	})

	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to load token encoding %q: %w", encoding, err)
	}

	return func(text string) int {
		return len(enc.Encode(text, nil, nil))
	}, nil
}
