package service

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/panupunn/lease-manager/internal/domain"
)

var contractNoPattern = regexp.MustCompile(`^(\d{6})-(\d+)$`)

// NextID returns the next running id: max of existing ids plus one, or 1
// for an empty table. Missing and non-numeric ids count as 0, so they can
// never inflate the maximum.
func NextID(records []domain.LeaseRecord) int {
	max := 0
	for _, r := range records {
		if r.ID > max {
			max = r.ID
		}
	}
	return max + 1
}

// NextContractNo returns the next "YYYYMM-XXX" contract number for the
// month of the start date. The sequence restarts at 1 per month bucket and
// is max+1 over the existing bucket members; gaps from deleted or edited
// records are not refilled. Callers previewing a number must recompute at
// actual save time.
func NextContractNo(records []domain.LeaseRecord, startDate time.Time) string {
	bucket := startDate.Format("200601")
	maxSeq := 0
	for _, r := range records {
		m := contractNoPattern.FindStringSubmatch(r.ContractNo)
		if m == nil || m[1] != bucket {
			continue
		}
		if seq, err := strconv.Atoi(m[2]); err == nil && seq > maxSeq {
			maxSeq = seq
		}
	}
	return fmt.Sprintf("%s-%03d", bucket, maxSeq+1)
}
