package domain

import "time"

// User representa el registro persistido de una cuenta.
// ID es interno al almacenamiento; UUID es el identificador expuesto a clientes.
type User struct {
	ID           int64     `json:"-"`
	UUID         string    `json:"uuid"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FacebookID   string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// HasPassword indica si la cuenta tiene credenciales locales.
// Cuentas creadas solo via Facebook no llevan hash de password.
func (u User) HasPassword() bool {
	return u.PasswordHash != ""
}
