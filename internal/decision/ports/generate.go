package ports

//go:generate mockgen -source=scorer.go -destination=../mocks/scorer.go -package=mocks Scorer
//go:generate mockgen -source=audit.go -destination=../mocks/audit.go -package=mocks AuditPublisher
