package workflows

import (
	"context"

	"github.com/PolarWolf314/capi/internal/keyring"
)

// VerifyResult summarizes a dataset and key ring without serving them.
type VerifyResult struct {
	DataPath  string
	Records   int
	LowestID  int
	HighestID int
	Slots     []keyring.Slot
}

// Verify runs Bootstrap and reports what the server would serve. It fails
// exactly when serve would fail to start.
func Verify(ctx context.Context, opts BootstrapOptions) (*VerifyResult, error) {
	boot, err := Bootstrap(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &VerifyResult{
		DataPath: boot.DataPath,
		Records:  boot.App.Index.Len(),
		Slots:    boot.Slots,
	}
	result.LowestID, result.HighestID, _ = boot.App.Index.IDRange()
	return result, nil
}
