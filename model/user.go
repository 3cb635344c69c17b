package model

const (
	//user roles
	RoleAdmin     string = "admin"
	RolePlanner          = "planner"
	RoleRequester        = "requester"
	RoleDriver           = "driver"
)

// UserRef identifies a user inside another record.
// References are always compared by Id, never by name or mail.
type UserRef struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

type User struct {
	Id       string `storm:"id" json:"id"`
	Name     string `json:"name"`
	Mail     string `storm:"unique" json:"mail"`
	Role     string `json:"role"`
	PassHash string `json:"-"`
}

func (u User) Ref() UserRef {
	return UserRef{Id: u.Id, Name: u.Name}
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type Session struct {
	Token     string `storm:"id"`
	UserId    string `storm:"index"`
	CreatedAt int64
}
