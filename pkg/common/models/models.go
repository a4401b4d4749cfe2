package models

import (
	"time"

	"github.com/google/uuid"
)

// Event Bus models
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"` // profile_updated, post_created, message_sent
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]string      `json:"metadata,omitempty"`
}

// Auth
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	UserType string `json:"userType"` // patient, caregiver
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type MagicLinkRequest struct {
	Email string `json:"email"`
}

type AuthResponse struct {
	AccessToken string      `json:"access_token"`
	ExpiresIn   string      `json:"expires_in"`
	User        UserSummary `json:"user"`
}

// Users
type UserSummary struct {
	ID                  uuid.UUID `json:"id"`
	Email               string    `json:"email"`
	Username            string    `json:"username,omitempty"`
	DisplayName         string    `json:"displayName,omitempty"`
	FirstName           string    `json:"firstName,omitempty"`
	LastName            string    `json:"lastName,omitempty"`
	Age                 *int      `json:"age,omitempty"`
	Gender              string    `json:"gender,omitempty"`
	UserType            string    `json:"userType"`
	Archetype           string    `json:"archetype,omitempty"`
	OnboardingCompleted bool      `json:"onboardingCompleted"`
	CreatedAt           time.Time `json:"createdAt"`
}

type PublicProfile struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"displayName,omitempty"`
	Username    string    `json:"username,omitempty"`
	UserType    string    `json:"userType"`
	Archetype   string    `json:"archetype,omitempty"`
	AvatarURL   string    `json:"avatarUrl,omitempty"`
	IsMemorial  bool      `json:"isMemorial"`
	CreatedAt   time.Time `json:"createdAt"`
}

type UpdateProfileRequest struct {
	FirstName          *string `json:"firstName,omitempty"`
	LastName           *string `json:"lastName,omitempty"`
	Username           *string `json:"username,omitempty"`
	DisplayName        *string `json:"displayName,omitempty"`
	Age                *int    `json:"age,omitempty"`
	Gender             *string `json:"gender,omitempty"`
	ShareWithCommunity *bool   `json:"shareWithCommunity,omitempty"`
	ShareForResearch   *bool   `json:"shareForResearch,omitempty"`
}

type UpdatePatientProfileRequest struct {
	DiagnosisDate         *time.Time `json:"diagnosisDate,omitempty"`
	TimeSinceDiagnosis    *string    `json:"timeSinceDiagnosis,omitempty"`
	MgmtStatus            *string    `json:"mgmtStatus,omitempty"`
	IdhStatus             *string    `json:"idhStatus,omitempty"`
	CurrentTreatmentPhase *string    `json:"currentTreatmentPhase,omitempty"`
	KarnofskyScore        *int       `json:"karnofskyScore,omitempty"`
	AgeAtDiagnosis        *int       `json:"ageAtDiagnosis,omitempty"`
	TreatingInstitution   *string    `json:"treatingInstitution,omitempty"`
}

// Onboarding
type OnboardingStatus struct {
	CurrentStep       int    `json:"currentStep"`
	Completed         bool   `json:"completed"`
	Archetype         string `json:"archetype,omitempty"`
	FirstName         string `json:"firstName,omitempty"`
	LastName          string `json:"lastName,omitempty"`
	Username          string `json:"username,omitempty"`
	DisplayName       string `json:"displayName,omitempty"`
	Age               *int   `json:"age,omitempty"`
	Gender            string `json:"gender,omitempty"`
	DiagnosisTimeline string `json:"diagnosisTimeline,omitempty"`
}

type CompleteOnboardingRequest struct {
	FirstName          string  `json:"firstName"`
	LastName           string  `json:"lastName,omitempty"`
	Username           string  `json:"username"`
	DisplayName        string  `json:"displayName,omitempty"`
	Age                *int    `json:"age,omitempty"`
	Gender             string  `json:"gender,omitempty"`
	Archetype          string  `json:"archetype"`
	DiagnosisTimeline  string  `json:"diagnosisTimeline,omitempty"`
	MgmtStatus         string  `json:"mgmtStatus,omitempty"`
	TreatmentPhase     string  `json:"treatmentPhase,omitempty"`
	ShareWithCommunity *bool   `json:"shareWithCommunity,omitempty"`
	ShareForResearch   *bool   `json:"shareForResearch,omitempty"`
	AgeAtDiagnosis     *int    `json:"ageAtDiagnosis,omitempty"`
	KarnofskyScore     *int    `json:"karnofskyScore,omitempty"`
	IdhStatus          *string `json:"idhStatus,omitempty"`
}

// Journal
type CreateJournalEntryRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Mood      string `json:"mood,omitempty"`
	IsPrivate *bool  `json:"isPrivate,omitempty"`
}

type UpdateJournalEntryRequest struct {
	Title     *string `json:"title,omitempty"`
	Content   *string `json:"content,omitempty"`
	Mood      *string `json:"mood,omitempty"`
	IsPrivate *bool   `json:"isPrivate,omitempty"`
}

type SaveCheckinRequest struct {
	EnergyLevel      int    `json:"energyLevel"`
	PainLevel        int    `json:"painLevel"`
	MoodLevel        int    `json:"moodLevel"`
	CognitiveClarity int    `json:"cognitiveClarity"`
	Notes            string `json:"notes,omitempty"`
}

type SymptomTrendPoint struct {
	Date             string `json:"date"`
	EnergyLevel      int    `json:"energyLevel"`
	PainLevel        int    `json:"painLevel"`
	MoodLevel        int    `json:"moodLevel"`
	CognitiveClarity int    `json:"cognitiveClarity"`
}

type SymptomAverages struct {
	EnergyLevel      float64 `json:"energyLevel"`
	PainLevel        float64 `json:"painLevel"`
	MoodLevel        float64 `json:"moodLevel"`
	CognitiveClarity float64 `json:"cognitiveClarity"`
}

type SymptomTrends struct {
	Trends   []SymptomTrendPoint `json:"trends"`
	Period   int                 `json:"period"`
	Averages *SymptomAverages    `json:"averages"`
}

// Community
type AuthorSummary struct {
	ID                uuid.UUID `json:"id"`
	DisplayName       string    `json:"displayName"`
	UserType          string    `json:"userType,omitempty"`
	DiagnosisTimeline string    `json:"diagnosisTimeline,omitempty"`
}

type PostView struct {
	ID            uuid.UUID     `json:"id"`
	Content       string        `json:"content"`
	LikesCount    int           `json:"likesCount"`
	CommentsCount int           `json:"commentsCount"`
	CreatedAt     time.Time     `json:"createdAt"`
	Author        AuthorSummary `json:"author"`
	IsLiked       bool          `json:"isLiked"`
}

type FeedPage struct {
	Posts      []PostView `json:"posts"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	Total      int64      `json:"total"`
	TotalPages int        `json:"totalPages"`
}

type CreatePostRequest struct {
	Content string `json:"content"`
}

type CommentView struct {
	ID        uuid.UUID     `json:"id"`
	Content   string        `json:"content"`
	CreatedAt time.Time     `json:"createdAt"`
	Author    AuthorSummary `json:"author"`
}

type CreateCommentRequest struct {
	Content string `json:"content"`
}

type LikeResult struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likesCount"`
}

type ConversationView struct {
	OtherUserID   uuid.UUID `json:"otherUserId"`
	OtherUserName string    `json:"otherUserName"`
	LastMessage   string    `json:"lastMessage"`
	LastMessageAt time.Time `json:"lastMessageAt"`
	UnreadCount   int64     `json:"unreadCount"`
}

type MessageView struct {
	ID        uuid.UUID `json:"id"`
	Content   string    `json:"content"`
	SenderID  uuid.UUID `json:"senderId"`
	CreatedAt time.Time `json:"createdAt"`
	IsOwn     bool      `json:"isOwn"`
}

type SendMessageRequest struct {
	Content string `json:"content"`
}

type Forum struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	PostCount int    `json:"postCount"`
}

// Patient Matching
type MatchView struct {
	UserID           uuid.UUID `json:"userId"`
	Name             string    `json:"name"`
	Similarity       float64   `json:"similarity"`
	Phase            string    `json:"phase,omitempty"`
	SharedAttributes []string  `json:"sharedAttributes,omitempty"`
}

type MatchListResponse struct {
	Matches []MatchView `json:"matches"`
}
