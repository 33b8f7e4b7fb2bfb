package coordinator

import "github.com/atotto/clipboard"

// Clipboard receives copied paths
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard writes to the desktop clipboard
type SystemClipboard struct{}

func (SystemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}
