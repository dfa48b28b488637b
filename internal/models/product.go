package models

type Product struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	NameAr        string  `json:"nameAr,omitempty"`
	Description   string  `json:"description,omitempty"`
	DescriptionAr string  `json:"descriptionAr,omitempty"`
	Points        float64 `json:"points"`
	FilePath      string  `json:"filePath,omitempty"`
	IsActive      bool    `json:"isActive"`
}
