package storage

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"

	"travel_dialogue_engine/src/logger"
)

// ArchivedBooking is one finalized booking as written to disk.
type ArchivedBooking struct {
	CustomerID  string            `json:"customer_id"`
	Task        string            `json:"task"`
	Details     map[string]string `json:"details"`
	CompletedAt time.Time         `json:"completed_at"`
}

// Archive persists finalized bookings as JSON lines, one file per
// customer, so completed bookings survive session expiry.
type Archive struct {
	dir string
	mu  sync.Mutex
}

func NewArchive(dir string) *Archive {
	return &Archive{dir: dir}
}

func (a *Archive) path(customerID string) string {
	return filepath.Join(a.dir, sanitizeID(customerID)+".jsonl")
}

// sanitizeID keeps customer IDs filesystem-safe.
func sanitizeID(id string) string {
	var sb strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	if sb.Len() == 0 {
		return "anonymous"
	}
	return sb.String()
}

// Append records a finalized booking for a customer.
func (a *Archive) Append(customerID, task string, details map[string]string) error {
	record := ArchivedBooking{
		CustomerID:  customerID,
		Task:        task,
		Details:     details,
		CompletedAt: time.Now().UTC(),
	}

	line, err := sonic.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal booking record: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create archive directory: %w", err)
	}

	file, err := os.OpenFile(a.path(customerID), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open archive file: %w", err)
	}
	defer file.Close()

	if _, err := file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to write booking record: %w", err)
	}

	return nil
}

// Load returns every archived booking for a customer, oldest first.
// Malformed lines are skipped so one bad record never hides the rest.
func (a *Archive) Load(customerID string) ([]ArchivedBooking, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	file, err := os.Open(a.path(customerID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open archive file: %w", err)
	}
	defer file.Close()

	var records []ArchivedBooking
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var record ArchivedBooking
		if err := sonic.Unmarshal([]byte(line), &record); err != nil {
			logger.Warn().
				Str("customer_id", customerID).
				Err(err).
				Msg("Skipping malformed archive record")
			continue
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read archive file: %w", err)
	}

	return records, nil
}
