package entity

// Trend는 카테고리별 트렌드 키워드 묶음입니다.
type Trend struct {
	Category string   `json:"category"`
	Keywords []string `json:"keywords"`
}

// Source는 검색 그라운딩 출처입니다.
type Source struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// TrendReport는 trending-keywords 응답입니다.
type TrendReport struct {
	Trends  []Trend  `json:"trends"`
	Sources []Source `json:"sources"`
}

// FallbackTrendReport는 파싱이나 호출 실패 시 사용하는 빈 결과입니다.
func FallbackTrendReport() TrendReport {
	return TrendReport{Trends: []Trend{}, Sources: []Source{}}
}
