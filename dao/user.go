package dao

import (
	"time"

	"consegne/model"

	"github.com/dchest/uniuri"
)

type UserDao interface {
	//Create assigns an id to the user, persists it and returns the id
	Create(u *model.User) (string, error)
	//GetOneById returns user by id
	GetOneById(id string) (model.User, error)
	//GetOneByMail returns user by mail
	GetOneByMail(mail string) (model.User, error)
	//GetAll returns all users
	GetAll() ([]model.User, error)
	//Update overwrites the stored user with the same id
	Update(u model.User) error
	//Delete removes a user
	Delete(id string) error
}

func NewUserDao(db Db) UserDao {
	return &userDao{db: db}
}

type userDao struct {
	db Db
}

func (d userDao) Create(u *model.User) (string, error) {
	u.Id = uniuri.NewLen(16)
	err := d.db.Save(u)
	return u.Id, err
}

func (d userDao) GetOneById(id string) (user model.User, err error) {
	err = d.db.One("Id", id, &user)
	return
}

func (d userDao) GetOneByMail(mail string) (user model.User, err error) {
	err = d.db.One("Mail", mail, &user)
	return
}

func (d userDao) GetAll() (users []model.User, err error) {
	err = d.db.All(&users)
	if err == nil && users == nil {
		users = []model.User{}
	}
	return
}

func (d userDao) Update(u model.User) error {
	return d.db.Save(&u)
}

func (d userDao) Delete(id string) error {
	user, err := d.GetOneById(id)
	if err != nil {
		return err
	}
	return d.db.DeleteStruct(&user)
}

type SessionDao interface {
	//Create issues an opaque bearer token for the user
	Create(userId string) (string, error)
	//GetUserId resolves a bearer token to a user id
	GetUserId(token string) (string, error)
	//Delete drops a session token
	Delete(token string) error
}

func NewSessionDao(db Db) SessionDao {
	return &sessionDao{db: db}
}

type sessionDao struct {
	db Db
}

func (d sessionDao) Create(userId string) (string, error) {
	session := model.Session{Token: uniuri.NewLen(32), UserId: userId, CreatedAt: time.Now().Unix()}
	err := d.db.Save(&session)
	return session.Token, err
}

func (d sessionDao) GetUserId(token string) (string, error) {
	var session model.Session
	err := d.db.One("Token", token, &session)
	if err != nil {
		return "", err
	}
	return session.UserId, nil
}

func (d sessionDao) Delete(token string) error {
	session := model.Session{Token: token}
	return d.db.DeleteStruct(&session)
}
