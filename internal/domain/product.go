package domain

type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	IsFeatured  bool    `json:"isFeatured,omitempty"`
	Marca       string  `json:"marca,omitempty"`
	Modelo      string  `json:"modelo,omitempty"`
	Ano         string  `json:"ano,omitempty"`
}
