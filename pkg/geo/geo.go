package geo

import "math"

// 地球平均半径（米），WGS84 参考椭球的算术平均值
const earthRadiusMeters = 6371008.8

// Zone 圆形地理围栏 — 以中心点经纬度 + 半径（米）描述
type Zone struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters float64 `json:"radius_meters"`
}

// Distance 计算两个经纬度点之间的大圆距离（米），Haversine 公式。
// 经纬度按角度制传入。
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// Contains 判断给定点是否落在围栏内（距离 ≤ 半径）。
// 半径为 0 时仅当点与中心完全重合（距离为 0）才返回 true；
// 负半径在创建围栏时已被拒绝，此处不再校验。
func (z Zone) Contains(lat, lon float64) bool {
	return Distance(z.Latitude, z.Longitude, lat, lon) <= z.RadiusMeters
}

// WithinAny 判断给定点是否落在任一围栏内（逻辑 OR，首个命中即返回）
func WithinAny(zones []Zone, lat, lon float64) bool {
	for _, z := range zones {
		if z.Contains(lat, lon) {
			return true
		}
	}
	return false
}

// ValidLatitude 纬度取值范围校验
func ValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

// ValidLongitude 经度取值范围校验
func ValidLongitude(lon float64) bool {
	return lon >= -180 && lon <= 180
}
