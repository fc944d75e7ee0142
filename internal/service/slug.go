package service

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ErrSlugExhausted is returned when no free suffix is found within the probe
// window, which only happens with pathological data.
var ErrSlugExhausted = errors.New("no free slug suffix available")

const slugProbeLimit = 1000

// allocateSlug probes base, base-1, base-2, ... against the model's table
// until a free slug is found. The caller's unique index is still the source
// of truth: a concurrent insert between probe and commit surfaces as a
// unique violation, and the whole write is retried.
func allocateSlug(tx *gorm.DB, model interface{}, base string, excludeID uint) (string, error) {
	if base == "" {
		base = "untitled"
	}

	candidate := base
	for i := 1; i <= slugProbeLimit; i++ {
		query := tx.Model(model).Where("slug = ?", candidate)
		if excludeID != 0 {
			query = query.Where("id <> ?", excludeID)
		}

		var count int64
		if err := query.Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}

	return "", ErrSlugExhausted
}

// isUniqueViolation reports whether err is a database uniqueness conflict.
// The sqlite driver does not always translate to gorm.ErrDuplicatedKey, so
// the message is checked as well.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
