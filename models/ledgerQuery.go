package models

import (
	"context"

	"bitbucket.org/mmdatafocus/cardrecon_backend/config"
	"bitbucket.org/mmdatafocus/cardrecon_backend/utils"
	"gorm.io/gorm"
)

// GetLedgerInput loads the three record sets from the database for a batch
// run. Movement codes are resolved here so the engine never sees a raw
// description without one.
func GetLedgerInput(ctx context.Context) (*LedgerInput, error) {
	db := config.GetDB()
	input := &LedgerInput{}

	if err := db.WithContext(ctx).Order("account_id").Find(&input.Accounts).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Order("account_id, transaction_at").Find(&input.Movements).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Order("id").Find(&input.Promotions).Error; err != nil {
		return nil, err
	}

	for i := range input.Movements {
		if input.Movements[i].Code == "" {
			input.Movements[i].Code = InferMovementCode(input.Movements[i].Description)
		}
	}

	return input, nil
}

// GetLedgerInputForAccount loads one account's records, filter pushed to the
// query so the single-account mode never pulls the whole ledger.
func GetLedgerInputForAccount(ctx context.Context, accountId string) (*LedgerInput, error) {
	db := config.GetDB()
	input := &LedgerInput{}

	if err := db.WithContext(ctx).Where("account_id = ?", accountId).Find(&input.Accounts).Error; err != nil {
		return nil, err
	}
	if len(input.Accounts) == 0 {
		return nil, utils.ErrorRecordNotFound
	}
	if err := db.WithContext(ctx).Where("account_id = ?", accountId).
		Order("transaction_at").Find(&input.Movements).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Where("account_id = ?", accountId).
		Order("id").Find(&input.Promotions).Error; err != nil {
		return nil, err
	}

	for i := range input.Movements {
		if input.Movements[i].Code == "" {
			input.Movements[i].Code = InferMovementCode(input.Movements[i].Description)
		}
	}

	return input, nil
}

// SaveLedgerInput persists an imported record set, replacing whatever the
// previous import left behind. Imports are whole-ledger snapshots, not
// increments.
func SaveLedgerInput(ctx context.Context, input *LedgerInput) error {
	db := config.GetDB()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range []interface{}{&Promotion{}, &Movement{}, &Account{}} {
			if err := tx.Where("1 = 1").Delete(table).Error; err != nil {
				return err
			}
		}
		// Accounts whose source row failed to parse are not snapshot
		// material; their LoadError surfaces through the run output instead.
		clean := make([]Account, 0, len(input.Accounts))
		for _, a := range input.Accounts {
			if a.LoadError == "" {
				clean = append(clean, a)
			}
		}
		if len(clean) > 0 {
			if err := tx.CreateInBatches(clean, 500).Error; err != nil {
				return err
			}
		}
		if len(input.Movements) > 0 {
			if err := tx.CreateInBatches(input.Movements, 500).Error; err != nil {
				return err
			}
		}
		if len(input.Promotions) > 0 {
			if err := tx.CreateInBatches(input.Promotions, 500).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveReconciliationRows persists a run's output keyed by (run_id, account_id).
func SaveReconciliationRows(ctx context.Context, rows []ReconciliationRow) error {
	if len(rows) == 0 {
		return nil
	}
	db := config.GetDB()
	return db.WithContext(ctx).CreateInBatches(rows, 200).Error
}

// GetReconciliationRows returns a run's rows in their assembled order,
// optionally filtered to one account id.
func GetReconciliationRows(ctx context.Context, runId, accountId string) ([]ReconciliationRow, error) {
	db := config.GetDB().WithContext(ctx).Where("run_id = ?", runId)
	if accountId != "" {
		db = db.Where("account_id = ?", accountId)
	}

	var rows []ReconciliationRow
	if err := db.Order("account_id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
