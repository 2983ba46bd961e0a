package models

import "time"

type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productoRef"`
	AuthorID  string    `json:"usuarioRef"`
	Rating    int       `json:"calificacionResena"`
	Comment   string    `json:"comentario"`
	CreatedAt time.Time `json:"fechaResena"`
}

type CreateReviewRequest struct {
	Rating  int    `json:"calificacionResena" binding:"required,min=1,max=5"`
	Comment string `json:"comentario"`
}
