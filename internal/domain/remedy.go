package domain

// HomeRemedy 家庭疗法目录（全局只读参考数据，不归属用户）
type HomeRemedy struct {
	ID           int      `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Ailment      string   `json:"ailment"`
	Ingredients  []string `json:"ingredients"`
	Instructions string   `json:"instructions"`
	Rating       float64  `json:"rating"`
	ReviewCount  int      `json:"reviewCount"`
}
