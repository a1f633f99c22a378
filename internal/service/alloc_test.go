package service

import (
	"testing"
	"time"

	"github.com/panupunn/lease-manager/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestNextID(t *testing.T) {
	require.Equal(t, 1, NextID(nil))
	require.Equal(t, 1, NextID([]domain.LeaseRecord{}))
	require.Equal(t, 6, NextID([]domain.LeaseRecord{{ID: 1}, {ID: 5}, {ID: 3}}))
	// Records whose id failed to parse carry 0 and never inflate the max.
	require.Equal(t, 3, NextID([]domain.LeaseRecord{{ID: 0}, {ID: 2}}))
	require.Equal(t, 1, NextID([]domain.LeaseRecord{{ID: 0}, {ID: 0}}))
}

func TestNextContractNo_EmptyTable(t *testing.T) {
	start := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	require.Equal(t, "202403-001", NextContractNo(nil, start))
}

func TestNextContractNo_IgnoresOtherBuckets(t *testing.T) {
	records := []domain.LeaseRecord{
		{ContractNo: "202403-001"},
		{ContractNo: "202403-002"},
		{ContractNo: "202402-005"},
	}
	start := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	require.Equal(t, "202403-003", NextContractNo(records, start))
}

func TestNextContractNo_GapsNotRefilled(t *testing.T) {
	records := []domain.LeaseRecord{
		{ContractNo: "202403-001"},
		{ContractNo: "202403-005"},
	}
	start := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	require.Equal(t, "202403-006", NextContractNo(records, start))
}

func TestNextContractNo_IgnoresMalformedNumbers(t *testing.T) {
	records := []domain.LeaseRecord{
		{ContractNo: "junk"},
		{ContractNo: "202403-abc"},
		{ContractNo: "2024-03-001"},
		{ContractNo: ""},
	}
	start := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	require.Equal(t, "202403-001", NextContractNo(records, start))
}

func TestNextContractNo_SequenceBeyondPadding(t *testing.T) {
	records := []domain.LeaseRecord{{ContractNo: "202403-999"}}
	start := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	require.Equal(t, "202403-1000", NextContractNo(records, start))
}
