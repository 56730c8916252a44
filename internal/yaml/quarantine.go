package yaml

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// Quarantine moves a corrupted state file into <stateDir>/quarantine so
// a later run never re-reads it.
func Quarantine(stateDir, filePath string) error {
	quarantineDir := filepath.Join(stateDir, "quarantine")
	if err := os.MkdirAll(quarantineDir, 0755); err != nil {
		return fmt.Errorf("create quarantine dir: %w", err)
	}

	baseName := filepath.Base(filePath)
	timestamp := time.Now().Format("20060102T150405")
	quarantineName := fmt.Sprintf("%s.%s.corrupt", baseName, timestamp)
	quarantinePath := filepath.Join(quarantineDir, quarantineName)

	if err := os.Rename(filePath, quarantinePath); err != nil {
		return fmt.Errorf("move to quarantine: %w", err)
	}

	log.Printf("quarantined corrupted file: %s → %s", filePath, quarantinePath)
	return nil
}

func RestoreFromBackup(filePath string) error {
	bakPath := filePath + ".bak"
	if _, err := os.Stat(bakPath); os.IsNotExist(err) {
		return fmt.Errorf("no backup file: %s", bakPath)
	}

	content, err := os.ReadFile(bakPath)
	if err != nil {
		return fmt.Errorf("read backup: %w", err)
	}

	// Validate backup is valid YAML
	if err := validateYAML(content); err != nil {
		return fmt.Errorf("backup YAML is also corrupted: %w", err)
	}

	if err := os.WriteFile(filePath, content, 0644); err != nil {
		return fmt.Errorf("restore from backup: %w", err)
	}

	log.Printf("restored from backup: %s → %s", bakPath, filePath)
	return nil
}

// RecoverCorruptedFile quarantines filePath and restores it from its
// .bak, falling back to a minimal skeleton of the given file type.
func RecoverCorruptedFile(stateDir, filePath, fileType string) error {
	if err := Quarantine(stateDir, filePath); err != nil {
		return fmt.Errorf("quarantine failed: %w", err)
	}

	if err := RestoreFromBackup(filePath); err != nil {
		log.Printf("backup restore failed for %s: %v — falling back to skeleton generation", filePath, err)
	} else {
		return nil
	}

	skeleton := skeletonForType(fileType)
	if err := AtomicWrite(filePath, skeleton); err != nil {
		return fmt.Errorf("skeleton generation failed: %w", err)
	}
	log.Printf("generated skeleton: %s (type: %s)", filePath, fileType)
	return nil
}

func skeletonForType(fileType string) any {
	switch fileType {
	case "permission_state":
		return map[string]any{
			"schema_version": CurrentSchemaVersion,
			"file_type":      "permission_state",
			"always_allow":   false,
			"updated_at":     nil,
		}
	case "run_record":
		return map[string]any{
			"schema_version": CurrentSchemaVersion,
			"file_type":      "run_record",
			"run_id":         "",
			"step_outputs":   []any{},
		}
	default:
		return map[string]any{
			"schema_version": CurrentSchemaVersion,
			"file_type":      fileType,
		}
	}
}
