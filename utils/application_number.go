package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/anjiri1684/pkl_sertifikasi/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	PrefixInternship    = "PKL"
	PrefixCertification = "SRT"
)

func FormatApplicationNumber(prefix string, year, seq int) string {
	return fmt.Sprintf("%s-%d-%04d", prefix, year, seq)
}

// ParseApplicationNumber splits "PKL-2025-0008" into its parts.
func ParseApplicationNumber(number string) (prefix string, year, seq int, err error) {
	parts := strings.Split(number, "-")
	if len(parts) != 3 {
		return "", 0, 0, fmt.Errorf("malformed application number %q", number)
	}
	year, err = strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, 0, fmt.Errorf("malformed year in %q", number)
	}
	seq, err = strconv.Atoi(parts[2])
	if err != nil {
		return "", 0, 0, fmt.Errorf("malformed sequence in %q", number)
	}
	return parts[0], year, seq, nil
}

// NextApplicationNumber reserves the next number for prefix and year. It must
// run inside the transaction that inserts the registration: the counter row is
// locked until that transaction ends. The first use of a (prefix, year) pair
// seeds the counter from the highest number already stored in existing's table.
func NextApplicationNumber(tx *gorm.DB, prefix string, year int, existing any) (string, error) {
	seq, err := lockSequence(tx, prefix, year)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		var start int
		start, err = maxExistingSequence(tx, prefix, year, existing)
		if err != nil {
			return "", err
		}
		fresh := models.ApplicationSequence{Prefix: prefix, Year: year, LastValue: start}
		if err = tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&fresh).Error; err != nil {
			return "", err
		}
		seq, err = lockSequence(tx, prefix, year)
	}
	if err != nil {
		return "", err
	}

	next := seq.LastValue + 1
	err = tx.Model(&models.ApplicationSequence{}).
		Where("prefix = ? AND year = ?", prefix, year).
		Update("last_value", next).Error
	if err != nil {
		return "", err
	}
	return FormatApplicationNumber(prefix, year, next), nil
}

func lockSequence(tx *gorm.DB, prefix string, year int) (*models.ApplicationSequence, error) {
	var seq models.ApplicationSequence
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("prefix = ? AND year = ?", prefix, year).
		Take(&seq).Error
	if err != nil {
		return nil, err
	}
	return &seq, nil
}

func maxExistingSequence(tx *gorm.DB, prefix string, year int, existing any) (int, error) {
	var numbers []string
	err := tx.Model(existing).Unscoped().
		Where("application_number LIKE ?", fmt.Sprintf("%s-%d-%%", prefix, year)).
		Pluck("application_number", &numbers).Error
	if err != nil {
		return 0, err
	}

	highest := 0
	for _, n := range numbers {
		p, y, s, err := ParseApplicationNumber(n)
		if err != nil || p != prefix || y != year {
			continue
		}
		if s > highest {
			highest = s
		}
	}
	return highest, nil
}
