package plugins

import (
	"testing"

	"github.com/bawdo/sqlbee/nodes"
)

func TestBaseTransformerIsNoOp(t *testing.T) {
	t.Parallel()
	var bt BaseTransformer

	core := &nodes.SelectCore{}
	if got, err := bt.TransformSelect(core); err != nil || got != core {
		t.Error("TransformSelect should pass through")
	}

	ins := &nodes.InsertStatement{}
	if got, err := bt.TransformInsert(ins); err != nil || got != ins {
		t.Error("TransformInsert should pass through")
	}

	upd := &nodes.UpdateStatement{}
	if got, err := bt.TransformUpdate(upd); err != nil || got != upd {
		t.Error("TransformUpdate should pass through")
	}

	del := &nodes.DeleteStatement{}
	if got, err := bt.TransformDelete(del); err != nil || got != del {
		t.Error("TransformDelete should pass through")
	}
}
