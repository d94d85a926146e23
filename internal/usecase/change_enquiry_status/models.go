package change_enquiry_status

// Request модель запроса на смену статуса заявки
type Request struct {
	ID      int64
	ActorID int64
	Status  string
}
