package infra

//go:generate go run github.com/vektra/mockery/v2@v2.53.2 --name=ErrorSink --output=../../../mocks
type ErrorSink interface {
	Write(msg string)
	Close() error
}
