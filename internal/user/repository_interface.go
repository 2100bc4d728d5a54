package user

import "context"

type Repository interface {
	Create(ctx context.Context, firstName, lastName, username, email, passwordHash string) (*User, error)
	FindByCredential(ctx context.Context, credential string) (*User, error)
	FindByID(ctx context.Context, id int) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
}
