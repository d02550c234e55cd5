package match

import (
	"errors"
	"fmt"
)

var (
	// ErrAgentCount 参与者数量不是 12（两名协调者 + 十名球员）
	ErrAgentCount = errors.New("match: exactly 12 agents are required")
	// ErrInvalidRoster 阵容表内容不合法
	ErrInvalidRoster = errors.New("match: invalid roster")
)

// Attributes 球员的固定属性，开赛时分配，整场不变
type Attributes struct {
	Speed     int `json:"speed"`
	Dribbling int `json:"dribbling"`
	Shooting  int `json:"shooting"`
}

// RosterEntry 阵容表的一行：编号、初始位置、属性
type RosterEntry struct {
	ID    int   `json:"id"`
	Start Point `json:"start"`
	Attributes
}

// Roster 十名球员的静态阵容表
type Roster []RosterEntry

// DefaultRoster 默认阵容（主队 2..6 站在左半场，客队 7..11 站在右半场）
var DefaultRoster = Roster{
	{ID: 2, Start: Point{21, 48}, Attributes: Attributes{Speed: 3, Dribbling: 10, Shooting: 2}},
	{ID: 3, Start: Point{21, 32}, Attributes: Attributes{Speed: 3, Dribbling: 8, Shooting: 4}},
	{ID: 4, Start: Point{21, 16}, Attributes: Attributes{Speed: 5, Dribbling: 7, Shooting: 3}},
	{ID: 5, Start: Point{41, 48}, Attributes: Attributes{Speed: 10, Dribbling: 3, Shooting: 2}},
	{ID: 6, Start: Point{41, 16}, Attributes: Attributes{Speed: 8, Dribbling: 1, Shooting: 6}},
	{ID: 7, Start: Point{107, 48}, Attributes: Attributes{Speed: 7, Dribbling: 2, Shooting: 6}},
	{ID: 8, Start: Point{107, 32}, Attributes: Attributes{Speed: 10, Dribbling: 4, Shooting: 1}},
	{ID: 9, Start: Point{107, 16}, Attributes: Attributes{Speed: 3, Dribbling: 10, Shooting: 2}},
	{ID: 10, Start: Point{87, 48}, Attributes: Attributes{Speed: 8, Dribbling: 2, Shooting: 5}},
	{ID: 11, Start: Point{87, 16}, Attributes: Attributes{Speed: 5, Dribbling: 2, Shooting: 8}},
}

// Validate 检查阵容：恰好十行、编号唯一且在 2..11、初始位置在场内、属性为正
func (r Roster) Validate() error {
	if len(r)+2 != Agents {
		return fmt.Errorf("%w: got %d agents", ErrAgentCount, len(r)+2)
	}
	seen := make(map[int]bool, len(r))
	for _, e := range r {
		if e.ID < FirstPlayer || e.ID > LastPlayer {
			return fmt.Errorf("%w: player id %d out of range", ErrInvalidRoster, e.ID)
		}
		if seen[e.ID] {
			return fmt.Errorf("%w: duplicate player id %d", ErrInvalidRoster, e.ID)
		}
		seen[e.ID] = true
		if !e.Start.InBounds() {
			return fmt.Errorf("%w: player %d starts out of bounds at %v", ErrInvalidRoster, e.ID, e.Start)
		}
		if e.Speed <= 0 || e.Dribbling <= 0 || e.Shooting <= 0 {
			return fmt.Errorf("%w: player %d has non-positive attributes", ErrInvalidRoster, e.ID)
		}
	}
	return nil
}

// Entry 按编号查阵容行
func (r Roster) Entry(id int) (RosterEntry, bool) {
	for _, e := range r {
		if e.ID == id {
			return e, true
		}
	}
	return RosterEntry{}, false
}
