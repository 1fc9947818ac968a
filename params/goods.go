package params

import (
	"context"
	"time"

	"practicetool/pod"
)

const (
	EquipParamGoods = "EquipParamGoods"

	// goodsIconOffset is iconId inside an EquipParamGoods row
	goodsIconOffset = 0x3E

	// DarksignID is the goods row whose icon the tool swaps while attached
	DarksignID         = 117
	DarksignIconActive = 116
	DarksignIconNormal = 5

	PollInterval = 100 * time.Millisecond
	PollTimeout  = 30 * time.Second
)

// GoodsIcon reads the icon id of an EquipParamGoods row
func (r *Repository) GoodsIcon(id uint32) (uint16, error) {
	row, err := r.goodsRow(context.Background(), id, 0)
	if err != nil {
		return 0, err
	}
	return pod.ReadT[uint16](r.mem, row.Data.Add(goodsIconOffset))
}

// SetGoodsIcon rewrites the icon id of an EquipParamGoods row. With a non-zero wait it first
// polls until the table has been loaded.
func (r *Repository) SetGoodsIcon(ctx context.Context, id uint32, icon uint16, wait time.Duration) error {
	row, err := r.goodsRow(ctx, id, wait)
	if err != nil {
		return err
	}
	if err := pod.WriteT(r.mem, row.Data.Add(goodsIconOffset), icon); err != nil {
		return err
	}
	r.log.Infof("%s[%d] icon -> %d", EquipParamGoods, id, icon)
	return nil
}

func (r *Repository) goodsRow(ctx context.Context, id uint32, wait time.Duration) (Row, error) {
	var t Table
	var err error
	if wait > 0 {
		t, err = r.WaitTable(ctx, EquipParamGoods, PollInterval, wait)
	} else {
		t, err = r.Find(EquipParamGoods)
	}
	if err != nil {
		return Row{}, err
	}
	return r.Row(t, id)
}
