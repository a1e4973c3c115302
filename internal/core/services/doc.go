// Package services implements the core business logic for the document
// question-answering pipeline. Services implement the driving port
// interfaces and depend only on driven port interfaces, keeping the
// pipeline independent of concrete providers and storage backends.
//
// Services:
//   - IngestService: extract, chunk, embed and commit documents
//   - RetrievalService: embed queries and rank stored passages
//   - PromptBuilder: fit retrieved passages into a model prompt
//   - AnswerGenerator: call the LLM with retries and a circuit breaker
//   - SessionHistory: in-memory record of a session's exchanges
//   - AskService: the full question path, wired from the above
package services
