// Package tdapi declares the subset of github.com/gotd/td/tdapi that the
// gotd fixture schema converts to, with the same shapes: types with one
// constructor are structs held by value, sum types are Class interfaces
// implemented on pointer receivers, vectors are slices of either.
package tdapi

// File represents TL type `file#e7b8bd1b`.
type File struct {
	ID           int32
	Size         int64
	ExpectedSize int64
	Local        LocalFile
	Remote       RemoteFile
}

// LocalFile represents TL type `localFile#a75d5fa7`.
type LocalFile struct {
	Path string
}

// RemoteFile represents TL type `remoteFile#85f2233f`.
type RemoteFile struct {
	ID string
}

// TextEntityTypeClass represents TextEntityType generic type.
type TextEntityTypeClass interface {
	TypeID() uint32
	construct() TextEntityTypeClass
}

type TextEntityTypeBold struct{}

func (*TextEntityTypeBold) TypeID() uint32 { return 0xbcc0e4e0 }
func (t *TextEntityTypeBold) construct() TextEntityTypeClass { return t }

type TextEntityTypeItalic struct{}

func (*TextEntityTypeItalic) TypeID() uint32 { return 0xe8ac9ec4 }
func (t *TextEntityTypeItalic) construct() TextEntityTypeClass { return t }

type TextEntityTypeCode struct{}

func (*TextEntityTypeCode) TypeID() uint32 { return 0xfe7a1c1e }
func (t *TextEntityTypeCode) construct() TextEntityTypeClass { return t }

type TextEntityTypePreCode struct {
	Language string
}

func (*TextEntityTypePreCode) TypeID() uint32 { return 0xdf35c0f5 }
func (t *TextEntityTypePreCode) construct() TextEntityTypeClass { return t }

type TextEntityTypeSpoiler struct{}

func (*TextEntityTypeSpoiler) TypeID() uint32 { return 0x2d7c8c9a }
func (t *TextEntityTypeSpoiler) construct() TextEntityTypeClass { return t }

// TextEntity represents TL type `textEntity#8bab99a8`.
type TextEntity struct {
	Offset int32
	Length int32
	Type   TextEntityTypeClass
}

// FormattedText represents TL type `formattedText#dc2c8fc5`.
type FormattedText struct {
	Text     string
	Entities []TextEntity
}

// Usernames represents TL type `usernames#c53e33b2`.
type Usernames struct {
	ActiveUsernames   []string
	DisabledUsernames []string
	EditableUsername  string
}

// ProfilePhoto represents TL type `profilePhoto#fd92a3d0`.
type ProfilePhoto struct {
	ID           int64
	Small        File
	Big          File
	HasAnimation bool
	IsPersonal   bool
}

// UserStatusClass represents UserStatus generic type.
type UserStatusClass interface {
	TypeID() uint32
	construct() UserStatusClass
}

type UserStatusEmpty struct{}

func (*UserStatusEmpty) TypeID() uint32 { return 0x9d05049 }
func (s *UserStatusEmpty) construct() UserStatusClass { return s }

type UserStatusOnline struct {
	Expires int32
}

func (*UserStatusOnline) TypeID() uint32 { return 0x8bb07a7f }
func (s *UserStatusOnline) construct() UserStatusClass { return s }

type UserStatusOffline struct {
	WasOnline int32
}

func (*UserStatusOffline) TypeID() uint32 { return 0x8d4bf0f1 }
func (s *UserStatusOffline) construct() UserStatusClass { return s }

// User represents TL type `user#...`.
type User struct {
	ID           int64
	FirstName    string
	LastName     string
	Usernames    Usernames
	PhoneNumber  string
	Status       UserStatusClass
	ProfilePhoto ProfilePhoto
	IsContact    bool
}

// MessageContentClass represents MessageContent generic type.
type MessageContentClass interface {
	TypeID() uint32
	construct() MessageContentClass
}

type MessageText struct {
	Text FormattedText
}

func (*MessageText) TypeID() uint32 { return 0x74fb5ae9 }
func (m *MessageText) construct() MessageContentClass { return m }

type MessagePhoto struct {
	Caption    FormattedText
	IsSecret   bool
	HasSpoiler bool
}

func (*MessagePhoto) TypeID() uint32 { return 0xb50aa70e }
func (m *MessagePhoto) construct() MessageContentClass { return m }

type MessageUnsupported struct{}

func (*MessageUnsupported) TypeID() uint32 { return 0xa5e4dc9b }
func (m *MessageUnsupported) construct() MessageContentClass { return m }

// GetUserRequest holds the arguments of getUser.
type GetUserRequest struct {
	UserID int64
}

// ParseMarkdownRequest holds the arguments of parseMarkdown.
type ParseMarkdownRequest struct {
	Text FormattedText
}
