package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DelayWatch/internal/model"
)

func TestBuildOverlayIndexDropsInactive(t *testing.T) {
	overlays := []model.TreatmentOverlay{
		{TreatmentID: 1, OrderID: "A", TreatmentStatus: model.TreatmentStatusOngoing},
		{TreatmentID: 2, OrderID: "B", TreatmentStatus: model.TreatmentStatusResolved, HumanTouched: true},
		{TreatmentID: 3, OrderID: "C", TreatmentStatus: model.TreatmentStatusResolved,
			Observations: model.AutoOpenObservation, HumanTouched: false},
	}

	idx := buildOverlayIndex(overlays)

	assert.NotNil(t, idx.find("A", ""))
	// 人工解决的工单叠加已关闭
	assert.Nil(t, idx.find("B", ""))
	// 自动开单后无人接手的 resolved 仍按待处理对待
	assert.NotNil(t, idx.find("C", ""))
}

func TestOverlayIndexNewestWinsAndLookupOrder(t *testing.T) {
	overlays := []model.TreatmentOverlay{
		{TreatmentID: 10, OrderID: "A", OrderNumber: "PED-A", TreatmentStatus: model.TreatmentStatusOngoing},
		{TreatmentID: 11, OrderID: "A", TreatmentStatus: model.TreatmentStatusPending},
		{TreatmentID: 12, OrderNumber: "PED-B", TreatmentStatus: model.TreatmentStatusPending},
	}

	idx := buildOverlayIndex(overlays)

	// 输入按新旧降序，重复订单保留先出现的一条
	got := idx.find("A", "")
	require.NotNil(t, got)
	assert.Equal(t, int64(10), got.TreatmentID)

	// order_id 查不到时回退 order_number
	got = idx.find("X", "PED-B")
	require.NotNil(t, got)
	assert.Equal(t, int64(12), got.TreatmentID)

	assert.Nil(t, idx.find("X", "PED-X"))
}
