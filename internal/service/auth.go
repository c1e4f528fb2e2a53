package service

import (
	"feedback-service/internal/auth"
	"feedback-service/internal/biz"
)

type AuthService struct {
	tokens *auth.TokenManager
}

func NewAuthService(tokens *auth.TokenManager) *AuthService {
	return &AuthService{tokens: tokens}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginReply struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

func (s *AuthService) Login(req *LoginRequest) (*LoginReply, error) {
	token, err := s.tokens.Login(req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	return &LoginReply{Token: token, Email: req.Email}, nil
}

type SessionReply struct {
	Email string `json:"email"`
}

func (s *AuthService) Session(sess *biz.Session) *SessionReply {
	return &SessionReply{Email: sess.Subject}
}
