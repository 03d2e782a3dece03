package paste

import (
	"fmt"
	"runtime"
	"time"

	"github.com/atotto/clipboard"
	"github.com/micmonay/keybd_event"
)

// SystemClipboard writes to the OS clipboard.
type SystemClipboard struct{}

func (SystemClipboard) Clear() error {
	return clipboard.WriteAll("")
}

func (SystemClipboard) Write(text string) error {
	return clipboard.WriteAll(text)
}

// SystemKeyboard synthesizes the paste chord: Cmd+V on macOS, Ctrl+V elsewhere.
type SystemKeyboard struct {
	// HoldDelay is the gap between key down and key up.
	HoldDelay time.Duration
}

func (k SystemKeyboard) Paste() error {
	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return fmt.Errorf("open keyboard device: %w", err)
	}
	if runtime.GOOS == "linux" {
		// uinput devices are ignored until the desktop has registered them.
		time.Sleep(2 * time.Second)
	}

	kb.SetKeys(keybd_event.VK_V)
	if runtime.GOOS == "darwin" {
		kb.HasSuper(true)
	} else {
		kb.HasCTRL(true)
	}

	if err := kb.Press(); err != nil {
		return fmt.Errorf("press paste chord: %w", err)
	}
	time.Sleep(k.HoldDelay)
	if err := kb.Release(); err != nil {
		return fmt.Errorf("release paste chord: %w", err)
	}
	return nil
}
