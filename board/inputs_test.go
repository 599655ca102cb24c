package board

import "testing"

func TestInputsShapeAndPaddingMask(t *testing.T) {
	b := NewBoard(9, 9, RuleChinese, 7.5, false)
	mustPlay(t, b, 4, 4, Black)

	in := b.Inputs(Black)
	data, ok := in.Data().([]float32)
	if !ok {
		t.Fatalf("Inputs().Data() is not []float32")
	}
	if len(data) != ModelInputSize {
		t.Fatalf("len(data) = %d, want %d", len(data), ModelInputSize)
	}

	planeSize := ModelSize * ModelSize
	padding := data[ModelFeatures*planeSize : (ModelFeatures+1)*planeSize]
	offsetX := (ModelSize - b.W) / 2
	offsetY := (ModelSize - b.H) / 2
	inside := (offsetY)*ModelSize + offsetX
	if padding[inside] != 1 {
		t.Fatalf("padding mask should be 1 inside the real board")
	}
	if padding[0] != 0 {
		t.Fatalf("padding mask should be 0 outside the real board")
	}

	own := data[1*planeSize : 2*planeSize]
	ownIdx := (4+offsetY)*ModelSize + (4 + offsetX)
	if own[ownIdx] != 1 {
		t.Fatalf("own-stone plane should mark the played cell")
	}
}
