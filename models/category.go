package models

type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type CategoryInput struct {
	Name string `json:"name" binding:"required"`
}
