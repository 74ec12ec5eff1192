package codec

import (
	"fmt"
)

const (
	FormatJSON    = "json"
	FormatMsgpack = "msgpack"
)

// Encode сериализует сообщение в формате из настроек хранилища, по умолчанию JSON
func Encode(format string, msg interface{ ToBytes() ([]byte, error) }) ([]byte, error) {
	if msg == nil {
		return nil, fmt.Errorf("некорректная ссылка на отчёт")
	}

	switch format {
	case "", FormatJSON:
		return msg.ToBytes()
	case FormatMsgpack:
		packer, ok := msg.(interface{ ToMsgpack() ([]byte, error) })
		if !ok {
			return nil, fmt.Errorf("отчёт %T не поддерживает msgpack", msg)
		}
		return packer.ToMsgpack()
	default:
		return nil, fmt.Errorf("неизвестный формат %q", format)
	}
}

func ContentType(format string) string {
	if format == FormatMsgpack {
		return "application/msgpack"
	}
	return "application/json"
}
