package match

import "math"

const (
	// ShootThreshold 成功率高于此值时球员选择射门，否则传球
	ShootThreshold = 0.6
	// CloseRange 射门前离球门距离小于此值进球得 2 分，否则 3 分
	CloseRange = 24

	// 射偏后的回弹位置：越过底线时退到禁区线附近而不是贴边
	overshootRightX = 108
	overshootLeftX  = 20
)

// Rand 随机源，*rand.Rand 满足该接口；测试中可以替换为脚本化的实现
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// ShotProbability 射门/传球成功率：ratio = (10+90·skill) / (0.5·d^1.5 − 0.5)，结果取 min(1, ratio/100)。
// 调用方保证 distance ≥ 1（站在球门上的情况在上一层直接判 2 分）
func ShotProbability(distance, skill int) float64 {
	d := float64(distance)
	ratio := (10 + 90*float64(skill)) / (0.5*d*math.Sqrt(d) - 0.5)
	if ratio < 100 {
		return ratio / 100
	}
	return 1
}

// DetermineShot 按成功率决定球的落点：成功则恰好落在 target，
// 失败则每个轴各偏移 0~4（正负随机），再按边界规则收回场内
func DetermineShot(rng Rand, skill int, origin, target Point) Point {
	p := ShotProbability(origin.Manhattan(target), skill)
	if rng.Float64() <= p {
		return target
	}
	out := Point{
		X: target.X + scatter(rng),
		Y: target.Y + scatter(rng),
	}
	return clampShot(out)
}

// scatter 偏移量 (1..8)/2 即 0..4，符号各半
func scatter(rng Rand) int {
	mag := (rng.Intn(8) + 1) / 2
	if rng.Intn(2) == 0 {
		return -mag
	}
	return mag
}

// clampShot X 越界时落到固定的内收位置，Y 越界时贴边
func clampShot(p Point) Point {
	if p.X > FieldLength {
		p.X = overshootRightX
	} else if p.X < 0 {
		p.X = overshootLeftX
	}
	if p.Y > FieldWidth {
		p.Y = FieldWidth
	} else if p.Y < 0 {
		p.Y = 0
	}
	return p
}
