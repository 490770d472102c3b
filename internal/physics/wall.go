package physics

// Wall identifies a side of the collision box.
type Wall uint8

const (
	WallNone Wall = iota
	WallTop
	WallBottom
	WallLeft
	WallRight
)

func (w Wall) String() string {
	switch w {
	case WallTop:
		return "top"
	case WallBottom:
		return "bottom"
	case WallLeft:
		return "left"
	case WallRight:
		return "right"
	default:
		return "none"
	}
}

// ParseWall is the inverse of String. Unknown names map to WallNone.
func ParseWall(s string) Wall {
	switch s {
	case "top":
		return WallTop
	case "bottom":
		return WallBottom
	case "left":
		return WallLeft
	case "right":
		return WallRight
	default:
		return WallNone
	}
}
