package message

// GridSize is the tile size class of an image grid.
type GridSize string

const (
	GridSmall  GridSize = "small"
	GridMedium GridSize = "medium"
	GridLarge  GridSize = "large"
)

// GridLayout describes how an image grid is drawn.
type GridLayout struct {
	Columns int      `json:"columns"`
	Rows    int      `json:"rows"`
	Size    GridSize `json:"size"`
}

// GridLayoutFor returns the layout for n images. It is a fixed lookup table,
// not a packing algorithm; counts above nine reuse the 3x3 layout.
func GridLayoutFor(n int) GridLayout {
	switch {
	case n <= 0:
		return GridLayout{Columns: 0, Rows: 0, Size: GridSmall}
	case n == 1:
		return GridLayout{Columns: 1, Rows: 1, Size: GridLarge}
	case n == 2:
		return GridLayout{Columns: 2, Rows: 1, Size: GridMedium}
	case n == 3:
		return GridLayout{Columns: 3, Rows: 1, Size: GridSmall}
	case n == 4:
		return GridLayout{Columns: 2, Rows: 2, Size: GridMedium}
	case n <= 6:
		return GridLayout{Columns: 3, Rows: 2, Size: GridSmall}
	default:
		return GridLayout{Columns: 3, Rows: 3, Size: GridSmall}
	}
}
