package notify

// TargetKind names the variant of a notification target.
type TargetKind string

const (
	KindPost    TargetKind = "POST"
	KindGroup   TargetKind = "GROUP"
	KindMessage TargetKind = "MESSAGE"
	KindPicture TargetKind = "PICTURE"
)

// Target is what a notification refers to. The set of implementations is
// closed: PostTarget, GroupTarget, MessageTarget and PictureTarget.
type Target interface {
	Kind() TargetKind
	isTarget()
}

// PostTarget is a post the actor reacted to.
type PostTarget struct{ Title string }

// GroupTarget is a group the actor joined or left.
type GroupTarget struct{ Name string }

// MessageTarget is a private message body.
type MessageTarget struct{ Details string }

// PictureTarget is a picture the actor commented on.
type PictureTarget struct{ PictureSrc string }

func (PostTarget) Kind() TargetKind    { return KindPost }
func (GroupTarget) Kind() TargetKind   { return KindGroup }
func (MessageTarget) Kind() TargetKind { return KindMessage }
func (PictureTarget) Kind() TargetKind { return KindPicture }

func (PostTarget) isTarget()    {}
func (GroupTarget) isTarget()   {}
func (MessageTarget) isTarget() {}
func (PictureTarget) isTarget() {}

// Item is a single notification. Seen is the flag supplied at load time;
// the live read state is owned by Store.
type Item struct {
	ID        string
	AvatarSrc string
	Name      string
	Action    string
	Timestamp string
	Target    Target // nil when the notification has no target
	Seen      bool
}
