package service

import (
	"testing"

	"github.com/JeongJaeHyung/SYNEX-QUOTATION-sub000/internal/quote/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compareDoc(id string) *entity.Document {
	return &entity.Document{ID: id, Kind: entity.DocKindPriceCompare}
}

func TestGroup_SubtotalsRollUp(t *testing.T) {
	g := NewGrouper(DefaultMajorPriority)
	lines := []entity.DocumentLine{
		{DocumentID: "d1", Major: "자재비", Minor: "PLC", Equipment: "컨베이어 A", UnitPrice: 100, Quantity: 2, CostUnitPrice: 100, CostQuantity: 2},
		{DocumentID: "d1", Major: "자재비", Minor: "센서", Equipment: "컨베이어 A", UnitPrice: 50, Quantity: 1, CostUnitPrice: 50, CostQuantity: 1},
	}

	out, err := g.Group(compareDoc("d1"), lines)
	require.NoError(t, err)

	require.Len(t, out.Buckets, 1)
	require.Len(t, out.Buckets[0].Groups, 1)
	assert.Equal(t, int64(250), out.Buckets[0].Groups[0].Subtotal)
	assert.Equal(t, int64(250), out.Buckets[0].Subtotal)
	assert.Equal(t, int64(250), out.GrandTotal)
	assert.Equal(t, int64(0), out.Delta)
}

func TestGroup_LineAmountsSumToGrandTotal(t *testing.T) {
	g := NewGrouper(DefaultMajorPriority)
	lines := []entity.DocumentLine{
		{Major: "자재비", Minor: "a", Equipment: "E1", UnitPrice: 3, Quantity: 7},
		{Major: "노무비", Minor: "b", Equipment: "E1", UnitPrice: 11, Quantity: 5},
		{Major: "경비", Minor: "c", Equipment: "E2", UnitPrice: 13, Quantity: 2},
		{Major: "자재비", Minor: "d", Equipment: "E2", UnitPrice: 17, Quantity: 3},
	}

	out, err := g.Group(nil, lines)
	require.NoError(t, err)

	var sum int64
	for _, b := range out.Buckets {
		var bucketSum int64
		for _, grp := range b.Groups {
			var groupSum int64
			for _, l := range grp.Lines {
				assert.Equal(t, l.Quantity*l.UnitPrice, l.Amount)
				groupSum += l.Amount
			}
			assert.Equal(t, groupSum, grp.Subtotal)
			bucketSum += grp.Subtotal
		}
		assert.Equal(t, bucketSum, b.Subtotal)
		sum += b.Subtotal
	}
	assert.Equal(t, sum, out.GrandTotal)
}

func TestGroup_BucketPriorityOrder(t *testing.T) {
	g := NewGrouper(DefaultMajorPriority)
	// 입력은 우선순위 역순으로 준다.
	lines := []entity.DocumentLine{
		{Major: "경비", Minor: "a", Equipment: "E", Quantity: 1, UnitPrice: 1},
		{Major: "출장비", Minor: "b", Equipment: "E", Quantity: 1, UnitPrice: 1},
		{Major: "노무비", Minor: "c", Equipment: "E", Quantity: 1, UnitPrice: 1},
		{Major: "자재비", Minor: "d", Equipment: "E", Quantity: 1, UnitPrice: 1},
	}

	out, err := g.Group(nil, lines)
	require.NoError(t, err)

	got := make([]string, len(out.Buckets))
	for i, b := range out.Buckets {
		got[i] = b.Major
	}
	assert.Equal(t, []string{"자재비", "노무비", "출장비", "경비"}, got)
}

func TestGroup_UnknownMajorsAfterKnownInFirstSeenOrder(t *testing.T) {
	g := NewGrouper(DefaultMajorPriority)
	lines := []entity.DocumentLine{
		{Major: "운송비", Minor: "a", Equipment: "E", Quantity: 1, UnitPrice: 1},
		{Major: "자재비", Minor: "b", Equipment: "E", Quantity: 1, UnitPrice: 1},
		{Major: "보험료", Minor: "c", Equipment: "E", Quantity: 1, UnitPrice: 1},
	}

	out, err := g.Group(nil, lines)
	require.NoError(t, err)

	got := make([]string, len(out.Buckets))
	for i, b := range out.Buckets {
		got[i] = b.Major
	}
	assert.Equal(t, []string{"자재비", "운송비", "보험료"}, got)
}

func TestGroup_EquipmentGroupsKeepFirstSeenOrder(t *testing.T) {
	g := NewGrouper(DefaultMajorPriority)
	lines := []entity.DocumentLine{
		{Major: "자재비", Minor: "a", Equipment: "포장기", Quantity: 1, UnitPrice: 1},
		{Major: "자재비", Minor: "b", Equipment: "컨베이어", Quantity: 1, UnitPrice: 1},
		{Major: "자재비", Minor: "c", Equipment: "포장기", Quantity: 1, UnitPrice: 1},
	}

	out, err := g.Group(nil, lines)
	require.NoError(t, err)

	require.Len(t, out.Buckets, 1)
	require.Len(t, out.Buckets[0].Groups, 2)
	assert.Equal(t, "포장기", out.Buckets[0].Groups[0].Equipment)
	assert.Equal(t, "컨베이어", out.Buckets[0].Groups[1].Equipment)
	assert.Len(t, out.Buckets[0].Groups[0].Lines, 2)
}

func TestGroup_Deterministic(t *testing.T) {
	g := NewGrouper(DefaultMajorPriority)
	lines := []entity.DocumentLine{
		{Major: "노무비", Minor: "m1", Equipment: "E1", Quantity: 2, UnitPrice: 30},
		{Major: "자재비", Minor: "m2", Equipment: "E2", Quantity: 4, UnitPrice: 25},
		{Major: "기타", Minor: "m3", Equipment: "E1", Quantity: 1, UnitPrice: 99},
	}

	first, err := g.Group(compareDoc("d"), lines)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := g.Group(compareDoc("d"), lines)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestValidateLines_DuplicateCompositeKey(t *testing.T) {
	g := NewGrouper(DefaultMajorPriority)
	lines := []entity.DocumentLine{
		{Major: "자재비", Minor: "PLC", Equipment: "컨베이어", Quantity: 1, UnitPrice: 1},
		{Major: "자재비", Minor: "PLC", Equipment: "컨베이어", Quantity: 2, UnitPrice: 2},
	}

	err := g.ValidateLines(lines)
	assert.ErrorIs(t, err, ErrInvalidLineData)
}

func TestValidateLines_EmptyMajor(t *testing.T) {
	g := NewGrouper(DefaultMajorPriority)
	err := g.ValidateLines([]entity.DocumentLine{
		{Major: "", Minor: "m", Equipment: "E", Quantity: 1},
	})
	assert.ErrorIs(t, err, ErrInvalidLineData)
}

func TestValidateLines_NegativeQuantity(t *testing.T) {
	g := NewGrouper(DefaultMajorPriority)
	err := g.ValidateLines([]entity.DocumentLine{
		{Major: "자재비", Minor: "m", Equipment: "E", Quantity: -1},
	})
	assert.ErrorIs(t, err, ErrInvalidLineData)

	err = g.ValidateLines([]entity.DocumentLine{
		{Major: "자재비", Minor: "m", Equipment: "E", Quantity: 1, CostQuantity: -2},
	})
	assert.ErrorIs(t, err, ErrInvalidLineData)
}

func TestGroup_DoesNotMutateInput(t *testing.T) {
	g := NewGrouper(DefaultMajorPriority)
	lines := []entity.DocumentLine{
		{Major: "경비", Minor: "a", Equipment: "E", Quantity: 1, UnitPrice: 10},
		{Major: "자재비", Minor: "b", Equipment: "E", Quantity: 2, UnitPrice: 20},
	}
	snapshot := make([]entity.DocumentLine, len(lines))
	copy(snapshot, lines)

	_, err := g.Group(nil, lines)
	require.NoError(t, err)
	assert.Equal(t, snapshot, lines)
}

func TestValidatePermutation(t *testing.T) {
	assert.NoError(t, validatePermutation([]int{2, 0, 1}, 3, 0))
	assert.ErrorIs(t, validatePermutation([]int{0, 0, 1}, 3, 0), ErrOrderConflict)
	assert.ErrorIs(t, validatePermutation([]int{0, 1}, 3, 0), ErrOrderConflict)
	assert.ErrorIs(t, validatePermutation([]int{0, 1, 3}, 3, 0), ErrOrderConflict)

	// 카탈로그는 1부터 시작한다.
	assert.NoError(t, validatePermutation([]int{3, 1, 2}, 3, 1))
	assert.ErrorIs(t, validatePermutation([]int{0, 1, 2}, 3, 1), ErrOrderConflict)
}
