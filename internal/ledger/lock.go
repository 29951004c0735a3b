package ledger

import (
	"fmt"

	"github.com/gofrs/flock"
)

// Lock guards the ledger against a second concurrent run. The tool is
// single-operator by design; the lock just turns an accidental double
// launch into a clean startup error instead of a corrupted ledger.
type Lock struct {
	fl *flock.Flock
}

// AcquireLock takes a non-blocking file lock next to the ledger.
func AcquireLock(ledgerPath string) (*Lock, error) {
	fl := flock.New(ledgerPath + ".lock")
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire ledger lock %s: %w", fl.Path(), err)
	}
	if !ok {
		return nil, fmt.Errorf("ledger %s is locked by another clipkeeper run", ledgerPath)
	}
	return &Lock{fl: fl}, nil
}

func (l *Lock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	return l.fl.Unlock()
}
