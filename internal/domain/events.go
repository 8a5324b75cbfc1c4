package domain

// TopicUserRegistered is published once per successfully created account.
const TopicUserRegistered = "user.registered"

// UserRegistered is the payload of TopicUserRegistered.
type UserRegistered struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}
