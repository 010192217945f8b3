package llm

import "strings"

const promptTemplate = `
Analise o texto abaixo, identifique para cada pessoa:
- O que foi feito
- O que vai ser feito

Para cada tarefa a fazer, retorne um objeto com:
- task: nome da tarefa
- prazo: expressão do prazo (ex: amanhã, sexta-feira, fim do dia)
- data_prazo: data no formato AAAA-MM-DD se possível identificar, senão deixe vazio
- descricao: pequena descrição adicional se houver

Retorne um JSON no formato:
[
  {
    "responsavel": "Nome",
    "feitas": ["tarefa1", ...],
    "a_fazer": [
      {
        "task": "nome da tarefa",
        "prazo": "expressão do prazo",
        "data_prazo": "AAAA-MM-DD",
        "descricao": "descrição adicional"
      }
    ]
  }
]

Texto: {texto}
`

// BuildPrompt embeds transcript in the extraction prompt
func BuildPrompt(transcript string) string {
	return strings.Replace(promptTemplate, "{texto}", transcript, 1)
}
