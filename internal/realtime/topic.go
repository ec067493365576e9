package realtime

import "fmt"

type topicKind uint8

const (
	topicCategory topicKind = iota
	topicUser
)

// Topic is the broadcaster's routing key. Category topics fan out task
// mutations to the folder owner and every collaborator; user topics carry
// private notices such as reminders. The zero Topic routes nowhere.
type Topic struct {
	kind     topicKind
	userID   int64
	category string
}

// CategoryTopic keys a folder by its owner and category name.
func CategoryTopic(ownerID int64, category string) Topic {
	return Topic{kind: topicCategory, userID: ownerID, category: category}
}

// UserTopic keys a single user's private channel.
func UserTopic(userID int64) Topic {
	return Topic{kind: topicUser, userID: userID}
}

func (t Topic) String() string {
	if t.kind == topicUser {
		return fmt.Sprintf("user:%d", t.userID)
	}
	return fmt.Sprintf("category:%d:%s", t.userID, t.category)
}
