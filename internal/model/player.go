package model

import "time"

// Player is a squad member eligible for the jersey rota.
//
// Nickname and UsualNumber are nullable and serialise as null when unset.
type Player struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Nickname    *string   `json:"nickname"`
	UsualNumber *string   `json:"usual_number"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListPlayersPayload takes no input.
type ListPlayersPayload struct{}

func (p *ListPlayersPayload) Validate() error {
	return nil
}

// CreatePlayerPayload is the body of POST /api/players.
type CreatePlayerPayload struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Nickname    *string `json:"nickname" validate:"omitnil,max=255"`
	UsualNumber *string `json:"usual_number" validate:"omitnil,max=10"`
}

func (p *CreatePlayerPayload) Validate() error {
	return validate.Struct(p)
}

// UpdatePlayerPayload is the body of PUT /api/players/:id.
//
// Every field is optional. A nil field, whether absent or JSON null, leaves
// the stored value unchanged. A present Name must not be empty.
type UpdatePlayerPayload struct {
	ID          int64   `param:"id" json:"-"`
	Name        *string `json:"name" validate:"omitnil,min=1,max=255"`
	Nickname    *string `json:"nickname" validate:"omitnil,max=255"`
	UsualNumber *string `json:"usual_number" validate:"omitnil,max=10"`
}

func (p *UpdatePlayerPayload) Validate() error {
	return validate.Struct(p)
}

// DeletePlayerPayload identifies the player removed by DELETE /api/players/:id.
type DeletePlayerPayload struct {
	ID int64 `param:"id" json:"-"`
}

func (p *DeletePlayerPayload) Validate() error {
	return validate.Struct(p)
}
