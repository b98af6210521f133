package history

import (
	"bufio"
	"os"
	"sync"
)

// History keeps a bounded list of entered command lines, persisted to a
// file across sessions.
type History struct {
	mu    sync.Mutex
	items []string
	file  string
	max   int
}

// New loads history from file, keeping at most max entries. A missing file
// yields an empty history.
func New(file string, max int) (*History, error) {
	h := &History{file: file, max: max}
	if err := h.load(); err != nil {
		return nil, err
	}
	return h, nil
}

// Add appends a command line, dropping the oldest entries past the cap.
func (h *History) Add(item string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.items = append(h.items, item)
	if len(h.items) > h.max {
		h.items = h.items[len(h.items)-h.max:]
	}
}

// All returns a copy of the retained lines, oldest first.
func (h *History) All() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	return append([]string{}, h.items...)
}

// Save writes the retained lines back to the history file.
func (h *History) Save() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	file, err := os.Create(h.file)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, item := range h.items {
		if _, err := writer.WriteString(item + "\n"); err != nil {
			return err
		}
	}
	return writer.Flush()
}

func (h *History) load() error {
	file, err := os.Open(h.file)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		h.items = append(h.items, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if len(h.items) > h.max {
		h.items = h.items[len(h.items)-h.max:]
	}
	return nil
}
