package app

import (
	"context"
	"strings"
	"time"

	"classroom-service/internal/domain"
	"classroom-service/internal/grading"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// QuizStore abstracts quiz persistence (bun store in production, sqlite in tests).
type QuizStore interface {
	ListQuizzes(ctx context.Context) ([]domain.QuizSummary, error)
	CreateQuiz(ctx context.Context, quiz domain.Quiz, questions []domain.Question, answers []domain.Answer) error
	ReplaceQuiz(ctx context.Context, quizID, name string, questions []domain.Question, answers []domain.Answer) error
	DeleteQuiz(ctx context.Context, quizID string) error
	SaveStudentAnswers(ctx context.Context, records []domain.StudentAnswer) error
	QuizGroupIDs(ctx context.Context, quizID string) ([]string, error)
	SetQuizGroups(ctx context.Context, quizID string, groupIDs []string) error
	QuizzesForGroup(ctx context.Context, groupID string) ([]domain.QuizSummary, error)
	StudentByClerkID(ctx context.Context, clerkUserID string) (domain.Student, error)
}

// QuizRepository loads quiz detail (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.QuizDetail, error)
	Invalidate(ctx context.Context, quizID string) error
}

// ResultFeed fans graded submissions out to live listeners.
type ResultFeed interface {
	Publish(ctx context.Context, result domain.QuizResult) error
	Subscribe(ctx context.Context, quizID string) (<-chan domain.QuizResult, func(), error)
}

// Actor is the caller as resolved from the bearer token.
type Actor struct {
	UserID string
	Role   domain.Role
}

// QuizDraft is an authored quiz before ids and positions are assigned.
type QuizDraft struct {
	Title  string
	Slides []SlideDraft
}

type SlideDraft struct {
	Text    string
	Image   string
	Answers []AnswerDraft
	Correct []int
}

type AnswerDraft struct {
	Text  string
	Image string
}

// Submission is what a quiz taker gets back. Students get Saved, everyone
// else gets Review.
type Submission struct {
	grading.Outcome
	Saved  int                  `json:"saved"`
	Review []grading.ReviewItem `json:"review,omitempty"`
}

// QuizService contains the quiz authoring and taking use cases.
type QuizService struct {
	store   QuizStore
	quizzes QuizRepository
	feed    ResultFeed
	grader  grading.Grader
	log     zerolog.Logger

	now   func() time.Time
	newID func() string
}

func NewQuizService(store QuizStore, quizzes QuizRepository, feed ResultFeed, grader grading.Grader, log zerolog.Logger) *QuizService {
	return &QuizService{
		store:   store,
		quizzes: quizzes,
		feed:    feed,
		grader:  grader,
		log:     log,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

func (s *QuizService) List(ctx context.Context) ([]domain.QuizSummary, error) {
	return s.store.ListQuizzes(ctx)
}

func (s *QuizService) Get(ctx context.Context, quizID string) (domain.QuizDetail, error) {
	return s.quizzes.GetQuiz(ctx, quizID)
}

// Create stores a new quiz with all of its questions and answers.
func (s *QuizService) Create(ctx context.Context, draft QuizDraft) (domain.Quiz, error) {
	if err := validateDraft(draft); err != nil {
		return domain.Quiz{}, err
	}
	quiz := domain.Quiz{ID: s.newID(), Name: strings.TrimSpace(draft.Title), CreatedAt: s.now().UTC()}
	questions, answers := s.children(quiz.ID, draft.Slides)
	if err := s.store.CreateQuiz(ctx, quiz, questions, answers); err != nil {
		return domain.Quiz{}, err
	}
	return quiz, nil
}

// Replace renames the quiz and swaps every question and answer for the draft's.
func (s *QuizService) Replace(ctx context.Context, quizID string, draft QuizDraft) error {
	if err := validateDraft(draft); err != nil {
		return err
	}
	questions, answers := s.children(quizID, draft.Slides)
	if err := s.store.ReplaceQuiz(ctx, quizID, strings.TrimSpace(draft.Title), questions, answers); err != nil {
		return err
	}
	s.invalidate(ctx, quizID)
	return nil
}

func (s *QuizService) Delete(ctx context.Context, quizID string) error {
	if err := s.store.DeleteQuiz(ctx, quizID); err != nil {
		return err
	}
	s.invalidate(ctx, quizID)
	return nil
}

// Submit grades an attempt. Students have one record per selected answer
// persisted and their result published; other roles get a review payload and
// nothing is written.
func (s *QuizService) Submit(ctx context.Context, quizID string, actor Actor, selections [][]int) (Submission, error) {
	detail, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return Submission{}, err
	}
	if err := grading.ValidateSelections(detail.Slides, selections); err != nil {
		return Submission{}, err
	}
	out := Submission{Outcome: s.grader.Score(detail.Slides, selections)}

	if actor.Role != domain.RoleStudent {
		out.Review = grading.Review(detail, selections)
		return out, nil
	}

	student, err := s.store.StudentByClerkID(ctx, actor.UserID)
	if err != nil {
		return Submission{}, err
	}
	now := s.now().UTC()
	records := grading.AnswerRecords(detail, student.ID, selections, now, s.newID)
	if err := s.store.SaveStudentAnswers(ctx, records); err != nil {
		return Submission{}, err
	}
	out.Saved = len(records)

	result := domain.QuizResult{
		QuizID:      quizID,
		StudentID:   student.ID,
		StudentName: student.Name,
		Score:       out.Score,
		Total:       out.Total,
		SubmittedAt: now,
	}
	if err := s.feed.Publish(ctx, result); err != nil {
		s.log.Warn().Err(err).Str("quiz_id", quizID).Msg("publish quiz result")
	}
	return out, nil
}

// Subscribe returns a channel of results for a quiz. The caller must invoke
// the returned cancel function to avoid leaks.
func (s *QuizService) Subscribe(ctx context.Context, quizID string) (<-chan domain.QuizResult, func(), error) {
	if _, err := s.quizzes.GetQuiz(ctx, quizID); err != nil {
		return nil, nil, err
	}
	return s.feed.Subscribe(ctx, quizID)
}

func (s *QuizService) GroupIDs(ctx context.Context, quizID string) ([]string, error) {
	ids, err := s.store.QuizGroupIDs(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

func (s *QuizService) SetGroups(ctx context.Context, quizID string, groupIDs []string) error {
	if quizID == "" {
		return domain.Invalid("quiz_id is required")
	}
	return s.store.SetQuizGroups(ctx, quizID, groupIDs)
}

// ForStudent lists the quizzes assigned to the student's group.
func (s *QuizService) ForStudent(ctx context.Context, clerkUserID string) ([]domain.QuizSummary, error) {
	student, err := s.store.StudentByClerkID(ctx, clerkUserID)
	if err != nil {
		return nil, err
	}
	if student.GroupID == "" {
		return []domain.QuizSummary{}, nil
	}
	return s.store.QuizzesForGroup(ctx, student.GroupID)
}

func (s *QuizService) invalidate(ctx context.Context, quizID string) {
	if err := s.quizzes.Invalidate(ctx, quizID); err != nil {
		s.log.Warn().Err(err).Str("quiz_id", quizID).Msg("invalidate quiz cache")
	}
}

// children assigns ids and authoring positions; answer i is correct when i is
// listed in the slide's Correct indices.
func (s *QuizService) children(quizID string, slides []SlideDraft) ([]domain.Question, []domain.Answer) {
	questions := make([]domain.Question, 0, len(slides))
	var answers []domain.Answer
	for qi, slide := range slides {
		q := domain.Question{
			ID:       s.newID(),
			QuizID:   quizID,
			Text:     slide.Text,
			MediaURL: slide.Image,
			Position: qi,
		}
		questions = append(questions, q)

		correct := make(map[int]bool, len(slide.Correct))
		for _, idx := range slide.Correct {
			correct[idx] = true
		}
		for ai, a := range slide.Answers {
			answers = append(answers, domain.Answer{
				ID:         s.newID(),
				QuestionID: q.ID,
				Text:       a.Text,
				ImageURL:   a.Image,
				IsCorrect:  correct[ai],
				Position:   ai,
			})
		}
	}
	return questions, answers
}

func validateDraft(draft QuizDraft) error {
	if strings.TrimSpace(draft.Title) == "" {
		return domain.Invalid("quiz title is required")
	}
	for i, slide := range draft.Slides {
		if strings.TrimSpace(slide.Text) == "" {
			return domain.Invalid("slide %d: question text is required", i+1)
		}
		for _, idx := range slide.Correct {
			if idx < 0 || idx >= len(slide.Answers) {
				return domain.Invalid("slide %d: correct index %d out of range", i+1, idx)
			}
		}
	}
	return nil
}
