package interfaces

import "context"

// TextGenerator 文本生成服务：system 为指令，prompt 为用户输入，返回模型原始文本
type TextGenerator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}
