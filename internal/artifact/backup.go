package artifact

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/lead-pruner/internal/models"
)

// backupTagColumns are appended after the exported lead columns
var backupTagColumns = []string{"Campaign ID", "Campaign Name", "Backup Timestamp"}

// WriteBackup writes the deletion backup and returns the file path. The file
// holds every collected lead row under the union of export columns, each row
// tagged with its campaign and the backup timestamp. The file is synced to
// disk before success is reported; deletion must never start on the strength
// of a buffered write.
func WriteBackup(dir string, set *models.BackupSet, generatedAt time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create artifact directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("leads_deletion_backup_%s.csv", generatedAt.Format(fileTimestampFormat)))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create backup file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	header := make([]string, 0, len(set.Columns)+len(backupTagColumns))
	header = append(header, set.Columns...)
	header = append(header, backupTagColumns...)
	if err := writer.Write(header); err != nil {
		return "", fmt.Errorf("write backup header: %w", err)
	}

	for _, record := range set.Records {
		row := make([]string, 0, len(header))
		for _, col := range set.Columns {
			row = append(row, record.Fields[col])
		}
		row = append(row,
			strconv.FormatInt(record.CampaignID, 10),
			record.CampaignName,
			record.BackupAt.Format("2006-01-02 15:04:05"),
		)
		if err := writer.Write(row); err != nil {
			return "", fmt.Errorf("write backup row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("flush backup file: %w", err)
	}

	if err := file.Sync(); err != nil {
		return "", fmt.Errorf("sync backup file: %w", err)
	}

	return path, nil
}
