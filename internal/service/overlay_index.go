package service

import "DelayWatch/internal/model"

// 工单叠加索引。一次告警合并内按 order_id 和 order_number
// 双键索引同一批叠加行，匹配订单时先试 order_id 再试 order_number。

type overlayIndex struct {
	byID     map[string]*model.TreatmentOverlay
	byNumber map[string]*model.TreatmentOverlay
}

// buildOverlayIndex 从生效叠加行构建索引。
// 输入按工单新旧降序，同一订单冲突时保留最新的一条。
func buildOverlayIndex(overlays []model.TreatmentOverlay) *overlayIndex {
	idx := &overlayIndex{
		byID:     make(map[string]*model.TreatmentOverlay, len(overlays)),
		byNumber: make(map[string]*model.TreatmentOverlay, len(overlays)),
	}

	for i := range overlays {
		o := &overlays[i]
		if !o.Active() {
			continue
		}

		if o.OrderID != "" {
			if _, ok := idx.byID[o.OrderID]; !ok {
				idx.byID[o.OrderID] = o
			}
		}
		if o.OrderNumber != "" {
			if _, ok := idx.byNumber[o.OrderNumber]; !ok {
				idx.byNumber[o.OrderNumber] = o
			}
		}
	}

	return idx
}

// find 按订单标识符查生效叠加，order_id 优先
func (idx *overlayIndex) find(orderID, orderNumber string) *model.TreatmentOverlay {
	if orderID != "" {
		if o, ok := idx.byID[orderID]; ok {
			return o
		}
	}
	if orderNumber != "" {
		if o, ok := idx.byNumber[orderNumber]; ok {
			return o
		}
	}
	return nil
}
