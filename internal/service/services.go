package service

import (
	"github.com/maksv/social-network-api/internal/config"
	"github.com/maksv/social-network-api/internal/repository"
)

type Services struct {
	Auth *AuthService
	User *UserService
	Post *PostService
}

func NewServices(repos *repository.Repositories, mailer Mailer, cfg *config.Config) *Services {
	return &Services{
		Auth: NewAuthService(repos.User, mailer, cfg),
		User: NewUserService(repos.User),
		Post: NewPostService(repos.Post, repos.User),
	}
}
