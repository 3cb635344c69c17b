package service

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"consegne/dao"
	"consegne/log"
	"consegne/model"
	"consegne/service/dto"
	"consegne/util"
)

type AuthService interface {
	//Login verifies a credential and issues a bearer token
	Login(mail, password string) (dto.LoginResponse, error)
	//Authenticate resolves a bearer token to its user
	Authenticate(token string) (model.User, error)
	//Logout drops a session token
	Logout(token string) error
	//EnsureAdmin seeds the bootstrap admin when no users exist
	EnsureAdmin(mail, name, password string) error
	//GetAllUsers returns all users
	GetAllUsers() ([]model.User, error)
	//CreateUser adds a user; admin only
	CreateUser(req dto.UserUpsert, actor model.User) (dto.Id, error)
	//UpdateUser edits a user; admin only
	UpdateUser(id string, req dto.UserUpsert, actor model.User) error
	//DeleteUser removes a user; admin only
	DeleteUser(id string, actor model.User) error
}

func NewAuthService(userDao dao.UserDao, sessionDao dao.SessionDao) AuthService {
	return &authService{userDao: userDao, sessionDao: sessionDao}
}

type authService struct {
	userDao    dao.UserDao
	sessionDao dao.SessionDao
}

func (s authService) Login(mail, password string) (dto.LoginResponse, error) {
	user, err := s.userDao.GetOneByMail(mail)
	if err != nil {
		return dto.LoginResponse{}, NewNotAuthorizedError("unknown mail or wrong password")
	}
	if subtle.ConstantTimeCompare([]byte(user.PassHash), []byte(hashPassword(password))) != 1 {
		return dto.LoginResponse{}, NewNotAuthorizedError("unknown mail or wrong password")
	}
	token, err := s.sessionDao.Create(user.Id)
	if err != nil {
		return dto.LoginResponse{}, err
	}
	return dto.LoginResponse{Token: token, User: user}, nil
}

func (s authService) Authenticate(token string) (model.User, error) {
	userId, err := s.sessionDao.GetUserId(token)
	if err != nil {
		return model.User{}, NewNotAuthorizedError("invalid or expired token")
	}
	user, err := s.userDao.GetOneById(userId)
	if err != nil {
		return model.User{}, NewNotAuthorizedError("session user no longer exists")
	}
	return user, nil
}

func (s authService) Logout(token string) error {
	return s.sessionDao.Delete(token)
}

func (s authService) EnsureAdmin(mail, name, password string) error {
	users, err := s.userDao.GetAll()
	if err != nil {
		return err
	}
	if len(users) > 0 {
		return nil
	}
	admin := model.User{Name: name, Mail: mail, Role: model.RoleAdmin, PassHash: hashPassword(password)}
	_, err = s.userDao.Create(&admin)
	if err == nil {
		log.Info.Println("seeded bootstrap admin", mail)
	}
	return err
}

func (s authService) GetAllUsers() ([]model.User, error) {
	return s.userDao.GetAll()
}

func (s authService) CreateUser(req dto.UserUpsert, actor model.User) (dto.Id, error) {
	if !actor.IsAdmin() {
		return dto.Id{}, NewNotAuthorizedError("only an admin can manage users")
	}
	if err := validateUser(req, true); err != nil {
		return dto.Id{}, err
	}
	user := model.User{Name: req.Name, Mail: req.Mail, Role: req.Role, PassHash: hashPassword(req.Password)}
	id, err := s.userDao.Create(&user)
	if err != nil {
		return dto.Id{}, err
	}
	return dto.Id{Id: id}, nil
}

func (s authService) UpdateUser(id string, req dto.UserUpsert, actor model.User) error {
	if !actor.IsAdmin() {
		return NewNotAuthorizedError("only an admin can manage users")
	}
	if err := validateUser(req, false); err != nil {
		return err
	}
	user, err := s.userDao.GetOneById(id)
	if err != nil {
		return err
	}
	user.Name = req.Name
	user.Mail = req.Mail
	user.Role = req.Role
	if !util.IsBlank(req.Password) {
		user.PassHash = hashPassword(req.Password)
	}
	return s.userDao.Update(user)
}

func (s authService) DeleteUser(id string, actor model.User) error {
	if !actor.IsAdmin() {
		return NewNotAuthorizedError("only an admin can manage users")
	}
	return s.userDao.Delete(id)
}

func validateUser(req dto.UserUpsert, needPassword bool) error {
	if util.IsBlank(req.Mail) || util.IsBlank(req.Name) {
		return NewInvalidPayloadError("name and mail required")
	}
	if needPassword && util.IsBlank(req.Password) {
		return NewInvalidPayloadError("password required")
	}
	switch req.Role {
	case model.RoleAdmin, model.RolePlanner, model.RoleRequester, model.RoleDriver:
		return nil
	}
	return NewInvalidPayloadError("invalid role " + req.Role)
}

func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
