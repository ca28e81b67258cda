// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package survey

import (
	"math"
	"strconv"

	"github.com/blinklabs-io/tonsurvey/contract"
)

// NftProcessingID is the identifier of the NftProcessing survey
const NftProcessingID = "nft-processing"

var contracts = []ContractSurvey{
	{
		ID:               NftProcessingID,
		Title:            "NftProcessing",
		ShortDescription: "Опросник для Tact-контракта залогового займа под NFT. Все вопросы читают данные напрямую через JSON-RPC.",
		DefaultNetwork:   NetworkTestnet,
		Tags:             []string{"tact", "loan", "nft"},
		Sections: []Section{
			{
				ID:          "state",
				Title:       "Состояние займа",
				Description: "Проверяем пользовательские геттеры, объявленные в контракте.",
				Questions: []Question{
					GetterQuestion(GetterQuestionOptions{
						ID:          "loan-status",
						Title:       "Текущий статус",
						Description: "Вызов get_status без промежуточных BOC файлов.",
						Getter:      "get_status",
						Format:      formatLoanStatus,
					}),
					GetterQuestion(GetterQuestionOptions{
						ID:          "loan-received",
						Title:       "Полученная сумма",
						Description: "Работает, если в контракте есть getter received_all.",
						Getter:      "received_all",
						Format:      formatReceived,
					}),
				},
			},
			{
				ID:          "participants",
				Title:       "Участники",
				Description: "Показываем адреса владельца и кредитора, считанные напрямую из геттеров.",
				Questions: []Question{
					GetterQuestion(GetterQuestionOptions{
						ID:     "owner",
						Title:  "Текущий владелец",
						Getter: "owner",
						Format: formatOwner,
					}),
					GetterQuestion(GetterQuestionOptions{
						ID:          "lender",
						Title:       "Адрес кредитора",
						Description: "Если публичный getter lender не объявлен, ответ вернётся с ошибочным exit_code.",
						Getter:      "lender",
					}),
				},
			},
			{
				ID:          "activity",
				Title:       "Активность",
				Description: "Берём последние транзакции через JSON-RPC getTransactions.",
				Questions: []Question{
					TransactionsQuestion(TransactionsQuestionOptions{
						ID:          "latest-transaction",
						Title:       "Последнее событие",
						Description: "Ограничиваемся одной транзакцией, чтобы получить суть последнего действия.",
						Limit:       1,
					}),
				},
			},
		},
	},
}

// Contracts returns every registered survey
func Contracts() []ContractSurvey {
	return contracts
}

// ContractByID returns the survey with the given identifier
func ContractByID(id string) (ContractSurvey, bool) {
	for _, c := range contracts {
		if c.ID == id {
			return c, true
		}
	}
	return ContractSurvey{}, false
}

func formatLoanStatus(result *RunGetMethodResult) *Answer {
	exitCode := result.ExitCode
	headline := "Не удалось"
	code := EmptyValue
	if num, ok := NumericStackValue(result, 0); ok {
		code = num.String()
		headline = "Неизвестно"
		if num.IsUint64() && num.Uint64() <= math.MaxUint8 {
			if label, ok := contract.LoanStatus(num.Uint64()).Label(); ok {
				headline = label
			}
		}
	}
	return &Answer{
		Headline: headline,
		Details: []AnswerDetail{
			{Label: "Код", Value: code},
			{Label: "Exit code", Value: strconv.Itoa(exitCode)},
		},
		Raw:      result,
		ExitCode: &exitCode,
	}
}

func formatReceived(result *RunGetMethodResult) *Answer {
	exitCode := result.ExitCode
	headline := StackItemToString(stackAt(result, 0))
	if num, ok := NumericStackValue(result, 0); ok && num.Sign() != 0 {
		headline = num.String() + " nanotons"
	}
	return &Answer{
		Headline: headline,
		Details:  stackDetails(result),
		Raw:      result,
		ExitCode: &exitCode,
	}
}

func formatOwner(result *RunGetMethodResult) *Answer {
	exitCode := result.ExitCode
	first := stackAt(result, 0)
	headline, ok := StackSliceToAddress(first)
	if !ok {
		headline = StackItemToString(first)
	}
	return &Answer{
		Headline: headline,
		Details: []AnswerDetail{
			{Label: "Stack", Value: StackItemToString(first)},
			{Label: "Exit code", Value: strconv.Itoa(exitCode)},
		},
		Raw:      result,
		ExitCode: &exitCode,
	}
}
